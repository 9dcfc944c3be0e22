package gateway

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"urjakart/models"
)

type phonepeProvider struct{}

const (
	phonepeLiveURL    = "https://api.phonepe.com/apis/hermes"
	phonepeTestURL    = "https://api-preprod.phonepe.com/apis/pg-sandbox"
	phonepePayPath    = "/pg/v1/pay"
	phonepeVerifySalt = "###1" // key index suffix on X-VERIFY
)

func (p *phonepeProvider) Name() models.UpiProvider {
	return models.ProviderPhonepe
}

func (p *phonepeProvider) SignatureHeader() string {
	return "X-VERIFY"
}

// Collect sends a PhonePe collect request. The body is a base64 envelope and
// X-VERIFY is sha256(base64 + path + saltKey) + "###" + keyIndex.
func (p *phonepeProvider) Collect(creds Credentials, req CollectRequest) (string, error) {
	baseURL := phonepeLiveURL
	if creds.TestMode {
		baseURL = phonepeTestURL
	}

	inner := map[string]interface{}{
		"merchantId":            creds.MerchantID,
		"merchantTransactionId": req.MerchantTxnID,
		"amount":                int64(req.Amount * 100),
		"callbackUrl":           req.CallbackURL,
		"paymentInstrument": map[string]interface{}{
			"type":      "UPI_COLLECT",
			"vpa":       req.Vpa,
			"targetApp": "",
		},
	}
	innerJSON, err := json.Marshal(inner)
	if err != nil {
		return "", fmt.Errorf("failed to build phonepe payload: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(innerJSON)

	sum := sha256.Sum256([]byte(encoded + phonepePayPath + creds.ApiSecret))
	verify := hex.EncodeToString(sum[:]) + phonepeVerifySalt

	client := newClient()
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetHeader("X-VERIFY", verify).
		SetBody(map[string]string{"request": encoded}).
		Post(baseURL + phonepePayPath)
	if err != nil {
		return "", fmt.Errorf("phonepe collect request failed: %v", err)
	}
	if resp.StatusCode() >= 300 {
		return "", fmt.Errorf("phonepe rejected collect request: %s", resp.String())
	}

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			TransactionID string `json:"transactionId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse phonepe response: %v", err)
	}
	if !result.Success || result.Data.TransactionID == "" {
		return "", fmt.Errorf("phonepe collect declined: %s", result.Message)
	}

	return result.Data.TransactionID, nil
}

// VerifyWebhookSignature checks X-VERIFY over the base64 response field the
// same way the pay call signs its body.
func (p *phonepeProvider) VerifyWebhookSignature(creds Credentials, body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	var payload struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Response == "" {
		return false
	}

	sum := sha256.Sum256([]byte(payload.Response + creds.WebhookSecret))
	expected := hex.EncodeToString(sum[:]) + phonepeVerifySalt
	return hmacEqual(expected, signature)
}

func (p *phonepeProvider) ParseWebhook(body []byte) (*WebhookEvent, error) {
	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid phonepe webhook envelope: %v", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(envelope.Response)
	if err != nil {
		return nil, fmt.Errorf("invalid phonepe webhook encoding: %v", err)
	}

	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Data    struct {
			TransactionID string `json:"transactionId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return nil, fmt.Errorf("invalid phonepe webhook payload: %v", err)
	}
	if payload.Data.TransactionID == "" {
		return nil, fmt.Errorf("phonepe webhook missing transactionId")
	}

	event := &WebhookEvent{ProviderReferenceID: payload.Data.TransactionID}
	switch payload.Code {
	case "PAYMENT_SUCCESS":
		event.Status = models.UpiStatusSuccess
	case "PAYMENT_ERROR", "PAYMENT_DECLINED", "TIMED_OUT":
		event.Status = models.UpiStatusFailed
		event.Reason = payload.Message
	default:
		return nil, fmt.Errorf("unhandled phonepe code: %s", payload.Code)
	}
	return event, nil
}
