package gateway

import (
	"encoding/json"
	"fmt"

	"urjakart/models"
)

type razorpayProvider struct{}

// Razorpay has no separate sandbox host; test keys select test mode.
const razorpayBaseURL = "https://api.razorpay.com/v1"

func (p *razorpayProvider) Name() models.UpiProvider {
	return models.ProviderRazorpay
}

func (p *razorpayProvider) SignatureHeader() string {
	return "X-Razorpay-Signature"
}

// Collect creates a UPI collect payment via Razorpay. Amount goes out in
// paise.
func (p *razorpayProvider) Collect(creds Credentials, req CollectRequest) (string, error) {
	body := map[string]interface{}{
		"amount":   int64(req.Amount * 100),
		"currency": "INR",
		"method":   "upi",
		"upi": map[string]interface{}{
			"flow": "collect",
			"vpa":  req.Vpa,
		},
		"reference_id": req.MerchantTxnID,
		"description":  req.Note,
		"callback_url": req.CallbackURL,
	}

	client := newClient()
	resp, err := client.R().
		SetBasicAuth(creds.ApiKey, creds.ApiSecret).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(razorpayBaseURL + "/payments/create/upi")
	if err != nil {
		return "", fmt.Errorf("razorpay collect request failed: %v", err)
	}
	if resp.StatusCode() >= 300 {
		return "", fmt.Errorf("razorpay rejected collect request: %s", resp.String())
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse razorpay response: %v", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("razorpay response missing payment id")
	}

	return result.ID, nil
}

func (p *razorpayProvider) VerifyWebhookSignature(creds Credentials, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return hmacEqual(hmacSHA256Hex(creds.WebhookSecret, body), signature)
}

func (p *razorpayProvider) ParseWebhook(body []byte) (*WebhookEvent, error) {
	var payload struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID               string `json:"id"`
					ErrorDescription string `json:"error_description"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid razorpay webhook payload: %v", err)
	}
	if payload.Payload.Payment.Entity.ID == "" {
		return nil, fmt.Errorf("razorpay webhook missing payment entity id")
	}

	event := &WebhookEvent{ProviderReferenceID: payload.Payload.Payment.Entity.ID}
	switch payload.Event {
	case "payment.captured", "payment.authorized":
		event.Status = models.UpiStatusSuccess
	case "payment.failed":
		event.Status = models.UpiStatusFailed
		event.Reason = payload.Payload.Payment.Entity.ErrorDescription
	default:
		return nil, fmt.Errorf("unhandled razorpay event: %s", payload.Event)
	}
	return event, nil
}
