package gateway

import (
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"urjakart/models"
)

type payuProvider struct{}

const (
	payuLiveURL = "https://info.payu.in/merchant/postservice.php?form=2"
	payuTestURL = "https://test.payu.in/merchant/postservice.php?form=2"
)

func (p *payuProvider) Name() models.UpiProvider {
	return models.ProviderPayu
}

func (p *payuProvider) SignatureHeader() string {
	return "X-Payu-Signature"
}

// Collect fires a PayU UPI collect. PayU authenticates the request itself
// with a sha512 hash over the pipe-joined fields and the salt.
func (p *payuProvider) Collect(creds Credentials, req CollectRequest) (string, error) {
	endpoint := payuLiveURL
	if creds.TestMode {
		endpoint = payuTestURL
	}

	amount := fmt.Sprintf("%.2f", req.Amount)
	hashInput := fmt.Sprintf("%s|upi_collect|%s|%s|%s|%s",
		creds.ApiKey, req.MerchantTxnID, amount, req.Vpa, creds.ApiSecret)
	sum := sha512.Sum512([]byte(hashInput))

	client := newClient()
	resp, err := client.R().
		SetFormData(map[string]string{
			"key":     creds.ApiKey,
			"command": "upi_collect",
			"var1":    req.MerchantTxnID,
			"var2":    amount,
			"var3":    req.Vpa,
			"var4":    req.CallbackURL,
			"hash":    hex.EncodeToString(sum[:]),
		}).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("payu collect request failed: %v", err)
	}
	if resp.StatusCode() >= 300 {
		return "", fmt.Errorf("payu rejected collect request: %s", resp.String())
	}

	var result struct {
		Status   int    `json:"status"`
		MihpayID string `json:"mihpayid"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse payu response: %v", err)
	}
	if result.Status != 1 || result.MihpayID == "" {
		return "", fmt.Errorf("payu collect declined: %s", result.Message)
	}

	return result.MihpayID, nil
}

func (p *payuProvider) VerifyWebhookSignature(creds Credentials, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return hmacEqual(hmacSHA256Hex(creds.WebhookSecret, body), signature)
}

func (p *payuProvider) ParseWebhook(body []byte) (*WebhookEvent, error) {
	var payload struct {
		MihpayID     string `json:"mihpayid"`
		Status       string `json:"status"`
		ErrorMessage string `json:"error_Message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid payu webhook payload: %v", err)
	}
	if payload.MihpayID == "" {
		return nil, fmt.Errorf("payu webhook missing mihpayid")
	}

	event := &WebhookEvent{ProviderReferenceID: payload.MihpayID}
	switch payload.Status {
	case "success":
		event.Status = models.UpiStatusSuccess
	case "failure", "failed":
		event.Status = models.UpiStatusFailed
		event.Reason = payload.ErrorMessage
	default:
		return nil, fmt.Errorf("unhandled payu status: %s", payload.Status)
	}
	return event, nil
}
