package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festpass/festpass-api/internal/config"
)

func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))

	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	gw := NewRazorpayGateway(&config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "test_secret",
		Currency:  "INR",
	})

	valid := signPayment("test_secret", "order_123", "pay_456")
	require.NoError(t, gw.VerifySignature("order_123", "pay_456", valid))

	// Any single-character change must be rejected.
	last := valid[len(valid)-1]
	flipped := byte('0')
	if last == '0' {
		flipped = '1'
	}
	forged := valid[:len(valid)-1] + string(flipped)
	assert.ErrorIs(t, gw.VerifySignature("order_123", "pay_456", forged), ErrSignatureMismatch)

	assert.ErrorIs(t, gw.VerifySignature("order_123", "pay_456", ""), ErrSignatureMismatch)
	assert.ErrorIs(t, gw.VerifySignature("order_999", "pay_456", valid), ErrSignatureMismatch)
	assert.ErrorIs(t, gw.VerifySignature("order_123", "pay_999", valid), ErrSignatureMismatch)

	signedWithWrongKey := signPayment("other_secret", "order_123", "pay_456")
	assert.ErrorIs(t, gw.VerifySignature("order_123", "pay_456", signedWithWrongKey), ErrSignatureMismatch)
}
