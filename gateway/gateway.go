// Package gateway wraps the UPI collect APIs of the supported payment
// providers behind one interface. The active UpiSettings row decides which
// implementation handles a payment; credentials arrive here already
// decrypted and are never stored.
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"urjakart/config"
	"urjakart/models"

	"github.com/go-resty/resty/v2"
)

// Credentials holds a settings row decrypted for a single gateway call
type Credentials struct {
	ApiKey        string
	ApiSecret     string
	MerchantID    string
	WebhookSecret string
	TestMode      bool
}

// CollectRequest asks the payer's UPI app to approve a debit
type CollectRequest struct {
	MerchantTxnID string
	Amount        float64
	Vpa           string
	CallbackURL   string
	Note          string
}

// WebhookEvent is a provider callback normalized to our transaction model
type WebhookEvent struct {
	ProviderReferenceID string
	Status              models.UpiTransactionStatus
	Reason              string
}

// Provider is one gateway variant. Collect fires the UPI collect request and
// returns the provider's reference id; the webhook methods verify and decode
// the provider's async callback.
type Provider interface {
	Name() models.UpiProvider
	SignatureHeader() string
	Collect(creds Credentials, req CollectRequest) (string, error)
	VerifyWebhookSignature(creds Credentials, body []byte, signature string) bool
	ParseWebhook(body []byte) (*WebhookEvent, error)
}

var registry = map[models.UpiProvider]Provider{
	models.ProviderRazorpay: &razorpayProvider{},
	models.ProviderPayu:     &payuProvider{},
	models.ProviderPhonepe:  &phonepeProvider{},
	models.ProviderGpay:     &gpayProvider{},
	models.ProviderMock:     &mockProvider{},
}

// Get returns the implementation for a provider name
func Get(name models.UpiProvider) (Provider, error) {
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unsupported payment provider: %s", name)
	}
	return p, nil
}

// newClient builds a resty client with the bounded per-call timeout. This
// timeout is independent of the payment window; a collect request that does
// not answer in time fails the transaction, it is never retried.
func newClient() *resty.Client {
	timeout := 15 * time.Second
	if config.AppConfig != nil && config.AppConfig.GatewayTimeout > 0 {
		timeout = time.Duration(config.AppConfig.GatewayTimeout) * time.Second
	}
	return resty.New().SetTimeout(timeout)
}

func hmacSHA256Hex(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func hmacEqual(expected, got string) bool {
	return hmac.Equal([]byte(expected), []byte(got))
}
