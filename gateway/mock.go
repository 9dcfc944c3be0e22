package gateway

import (
	"encoding/json"
	"fmt"

	"urjakart/models"

	"github.com/google/uuid"
)

// mockProvider accepts every collect request without any network call. Used
// in test mode setups and in the test suite; its webhook format is our own.
type mockProvider struct{}

func (p *mockProvider) Name() models.UpiProvider {
	return models.ProviderMock
}

func (p *mockProvider) SignatureHeader() string {
	return "X-Mock-Signature"
}

func (p *mockProvider) Collect(creds Credentials, req CollectRequest) (string, error) {
	if creds.MerchantID == "" {
		return "", fmt.Errorf("mock provider requires a merchant id")
	}
	return "MOCK-" + uuid.NewString(), nil
}

func (p *mockProvider) VerifyWebhookSignature(creds Credentials, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return hmacEqual(hmacSHA256Hex(creds.WebhookSecret, body), signature)
}

// SignWebhook produces the signature VerifyWebhookSignature expects. Exported
// for tests and local webhook simulation.
func SignWebhook(webhookSecret string, body []byte) string {
	return hmacSHA256Hex(webhookSecret, body)
}

func (p *mockProvider) ParseWebhook(body []byte) (*WebhookEvent, error) {
	var payload struct {
		ReferenceID string `json:"referenceId"`
		Status      string `json:"status"`
		Reason      string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid mock webhook payload: %v", err)
	}
	if payload.ReferenceID == "" {
		return nil, fmt.Errorf("mock webhook missing referenceId")
	}

	event := &WebhookEvent{ProviderReferenceID: payload.ReferenceID, Reason: payload.Reason}
	switch payload.Status {
	case "SUCCESS":
		event.Status = models.UpiStatusSuccess
	case "FAILED":
		event.Status = models.UpiStatusFailed
	default:
		return nil, fmt.Errorf("unhandled mock status: %s", payload.Status)
	}
	return event, nil
}
