package gateway

import (
	"encoding/json"
	"fmt"

	"urjakart/models"
)

// gpayProvider talks to Google Pay for Business collect API. The flow is the
// plain merchant collect request, not the in-app tokenized one.
type gpayProvider struct{}

const (
	gpayLiveURL = "https://pay.google.com/businessapi/v1"
	gpayTestURL = "https://pay.sandbox.google.com/businessapi/v1"
)

func (p *gpayProvider) Name() models.UpiProvider {
	return models.ProviderGpay
}

func (p *gpayProvider) SignatureHeader() string {
	return "X-Goog-Signature"
}

func (p *gpayProvider) Collect(creds Credentials, req CollectRequest) (string, error) {
	baseURL := gpayLiveURL
	if creds.TestMode {
		baseURL = gpayTestURL
	}

	body := map[string]interface{}{
		"merchantId":            creds.MerchantID,
		"merchantTransactionId": req.MerchantTxnID,
		"amount": map[string]interface{}{
			"currencyCode": "INR",
			"units":        int64(req.Amount * 100),
		},
		"payeeVpa":    req.Vpa,
		"description": req.Note,
		"callbackUrl": req.CallbackURL,
	}

	client := newClient()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+creds.ApiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(baseURL + "/collectRequests")
	if err != nil {
		return "", fmt.Errorf("gpay collect request failed: %v", err)
	}
	if resp.StatusCode() >= 300 {
		return "", fmt.Errorf("gpay rejected collect request: %s", resp.String())
	}

	var result struct {
		CollectRequestID string `json:"collectRequestId"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse gpay response: %v", err)
	}
	if result.CollectRequestID == "" {
		return "", fmt.Errorf("gpay response missing collect request id")
	}

	return result.CollectRequestID, nil
}

func (p *gpayProvider) VerifyWebhookSignature(creds Credentials, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return hmacEqual(hmacSHA256Hex(creds.WebhookSecret, body), signature)
}

func (p *gpayProvider) ParseWebhook(body []byte) (*WebhookEvent, error) {
	var payload struct {
		EventType        string `json:"eventType"`
		CollectRequestID string `json:"collectRequestId"`
		FailureReason    string `json:"failureReason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid gpay webhook payload: %v", err)
	}
	if payload.CollectRequestID == "" {
		return nil, fmt.Errorf("gpay webhook missing collectRequestId")
	}

	event := &WebhookEvent{ProviderReferenceID: payload.CollectRequestID}
	switch payload.EventType {
	case "PAYMENT_COMPLETED":
		event.Status = models.UpiStatusSuccess
	case "PAYMENT_FAILED", "PAYMENT_EXPIRED":
		event.Status = models.UpiStatusFailed
		event.Reason = payload.FailureReason
	default:
		return nil, fmt.Errorf("unhandled gpay event: %s", payload.EventType)
	}
	return event, nil
}
