package gateway

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"

	"urjakart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownAndUnknownProviders(t *testing.T) {
	for _, name := range []models.UpiProvider{
		models.ProviderRazorpay,
		models.ProviderPayu,
		models.ProviderPhonepe,
		models.ProviderGpay,
		models.ProviderMock,
	} {
		p, err := Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}

	_, err := Get("stripe")
	assert.Error(t, err)
}

func TestMockProvider_CollectAndWebhook(t *testing.T) {
	p, err := Get(models.ProviderMock)
	require.NoError(t, err)

	creds := Credentials{MerchantID: "MERCH01", WebhookSecret: "whsec"}

	ref, err := p.Collect(creds, CollectRequest{
		MerchantTxnID: "UPI-abc",
		Amount:        150.50,
		Vpa:           "buyer@ybl",
	})
	require.NoError(t, err)
	assert.Contains(t, ref, "MOCK-")

	_, err = p.Collect(Credentials{}, CollectRequest{})
	assert.Error(t, err)

	body, _ := json.Marshal(map[string]string{
		"referenceId": ref,
		"status":      "SUCCESS",
	})
	sig := SignWebhook("whsec", body)

	assert.True(t, p.VerifyWebhookSignature(creds, body, sig))
	assert.False(t, p.VerifyWebhookSignature(creds, body, "forged"))
	assert.False(t, p.VerifyWebhookSignature(creds, body, ""))
	assert.False(t, p.VerifyWebhookSignature(Credentials{WebhookSecret: "other"}, body, sig))

	event, err := p.ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, ref, event.ProviderReferenceID)
	assert.Equal(t, models.UpiStatusSuccess, event.Status)

	_, err = p.ParseWebhook([]byte(`{"referenceId":"x","status":"MAYBE"}`))
	assert.Error(t, err)
}

func TestRazorpayProvider_ParseWebhook(t *testing.T) {
	p, err := Get(models.ProviderRazorpay)
	require.NoError(t, err)

	captured := []byte(`{
		"event": "payment.captured",
		"payload": {"payment": {"entity": {"id": "pay_ABC123"}}}
	}`)
	event, err := p.ParseWebhook(captured)
	require.NoError(t, err)
	assert.Equal(t, "pay_ABC123", event.ProviderReferenceID)
	assert.Equal(t, models.UpiStatusSuccess, event.Status)

	failed := []byte(`{
		"event": "payment.failed",
		"payload": {"payment": {"entity": {"id": "pay_DEF456", "error_description": "collect expired"}}}
	}`)
	event, err = p.ParseWebhook(failed)
	require.NoError(t, err)
	assert.Equal(t, models.UpiStatusFailed, event.Status)
	assert.Equal(t, "collect expired", event.Reason)

	_, err = p.ParseWebhook([]byte(`{"event":"order.paid"}`))
	assert.Error(t, err)
}

func TestRazorpayProvider_SignatureIsHmacOfBody(t *testing.T) {
	p, err := Get(models.ProviderRazorpay)
	require.NoError(t, err)

	creds := Credentials{WebhookSecret: "rzp_whsec"}
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, p.VerifyWebhookSignature(creds, body, hmacSHA256Hex("rzp_whsec", body)))
	assert.False(t, p.VerifyWebhookSignature(creds, body, hmacSHA256Hex("wrong", body)))
}

func TestPayuProvider_ParseWebhook(t *testing.T) {
	p, err := Get(models.ProviderPayu)
	require.NoError(t, err)

	event, err := p.ParseWebhook([]byte(`{"mihpayid":"403993715534","status":"success"}`))
	require.NoError(t, err)
	assert.Equal(t, "403993715534", event.ProviderReferenceID)
	assert.Equal(t, models.UpiStatusSuccess, event.Status)

	event, err = p.ParseWebhook([]byte(`{"mihpayid":"403993715535","status":"failure","error_Message":"Bank declined"}`))
	require.NoError(t, err)
	assert.Equal(t, models.UpiStatusFailed, event.Status)
	assert.Equal(t, "Bank declined", event.Reason)
}

func TestPhonepeProvider_WebhookRoundTrip(t *testing.T) {
	p, err := Get(models.ProviderPhonepe)
	require.NoError(t, err)

	inner, _ := json.Marshal(map[string]interface{}{
		"code":    "PAYMENT_SUCCESS",
		"message": "Your payment is successful.",
		"data":    map[string]string{"transactionId": "T2408281635"},
	})
	encoded := base64.StdEncoding.EncodeToString(inner)
	body, _ := json.Marshal(map[string]string{"response": encoded})

	creds := Credentials{WebhookSecret: "salt-key"}
	sum := sha256.Sum256([]byte(encoded + "salt-key"))
	signature := hex.EncodeToString(sum[:]) + "###1"

	assert.True(t, p.VerifyWebhookSignature(creds, body, signature))
	assert.False(t, p.VerifyWebhookSignature(creds, body, signature+"x"))
	assert.False(t, p.VerifyWebhookSignature(Credentials{WebhookSecret: "other"}, body, signature))

	event, err := p.ParseWebhook(body)
	require.NoError(t, err)
	assert.Equal(t, "T2408281635", event.ProviderReferenceID)
	assert.Equal(t, models.UpiStatusSuccess, event.Status)
}

func TestGpayProvider_ParseWebhook(t *testing.T) {
	p, err := Get(models.ProviderGpay)
	require.NoError(t, err)

	event, err := p.ParseWebhook([]byte(`{"eventType":"PAYMENT_COMPLETED","collectRequestId":"CR-9"}`))
	require.NoError(t, err)
	assert.Equal(t, "CR-9", event.ProviderReferenceID)
	assert.Equal(t, models.UpiStatusSuccess, event.Status)

	event, err = p.ParseWebhook([]byte(`{"eventType":"PAYMENT_EXPIRED","collectRequestId":"CR-10","failureReason":"collect request expired"}`))
	require.NoError(t, err)
	assert.Equal(t, models.UpiStatusFailed, event.Status)
	assert.Equal(t, "collect request expired", event.Reason)
}

func TestParseWebhook_RejectsEmptyReference(t *testing.T) {
	phonepeInner, _ := json.Marshal(map[string]interface{}{
		"code": "PAYMENT_SUCCESS",
		"data": map[string]string{"transactionId": ""},
	})
	phonepeBody, _ := json.Marshal(map[string]string{
		"response": base64.StdEncoding.EncodeToString(phonepeInner),
	})

	cases := []struct {
		provider models.UpiProvider
		body     []byte
	}{
		{models.ProviderMock, []byte(`{"referenceId":"","status":"SUCCESS"}`)},
		{models.ProviderRazorpay, []byte(`{"event":"payment.captured","payload":{}}`)},
		{models.ProviderPayu, []byte(`{"mihpayid":"","status":"success"}`)},
		{models.ProviderPhonepe, phonepeBody},
		{models.ProviderGpay, []byte(`{"eventType":"PAYMENT_COMPLETED","collectRequestId":""}`)},
	}

	for _, tc := range cases {
		p, err := Get(tc.provider)
		require.NoError(t, err)

		_, err = p.ParseWebhook(tc.body)
		assert.Error(t, err, "provider %s accepted a webhook without a reference id", tc.provider)
	}
}
