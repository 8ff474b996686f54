package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festpass/festpass-api/internal/config"
)

func TestPhonePeGateway_InitiatePayment(t *testing.T) {
	const saltKey = "test-salt"

	var gotVerify string
	var gotPayload phonePePayRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pg/v1/pay", r.URL.Path)

		gotVerify = r.Header.Get("X-VERIFY")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var wrapper map[string]string
		require.NoError(t, json.Unmarshal(body, &wrapper))

		decoded, err := base64.StdEncoding.DecodeString(wrapper["request"])
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(decoded, &gotPayload))

		sum := sha256.Sum256([]byte(wrapper["request"] + "/pg/v1/pay" + saltKey))
		require.Equal(t, hex.EncodeToString(sum[:])+"###1", gotVerify)

		resp := phonePePayResponse{Success: true}
		resp.Data.InstrumentResponse.RedirectInfo.URL = "https://pay.example.com/redirect"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	gw := NewPhonePeGateway(&config.PhonePeConfig{
		MerchantID: "MERCHANT1",
		SaltKey:    saltKey,
		SaltIndex:  1,
		HostURL:    srv.URL,
	})

	url, err := gw.InitiatePayment(context.Background(), 500, "MT-1", "9998887777", "https://fest.example.com/payment-status.html")
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example.com/redirect", url)
	assert.Equal(t, "MERCHANT1", gotPayload.MerchantID)
	assert.Equal(t, 50000, gotPayload.Amount)
	assert.Equal(t, "PAY_PAGE", gotPayload.PaymentInstrument.Type)
}

func TestPhonePeGateway_InitiatePayment_GatewayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(phonePePayResponse{Success: false})
	}))
	defer srv.Close()

	gw := NewPhonePeGateway(&config.PhonePeConfig{
		MerchantID: "MERCHANT1",
		SaltKey:    "test-salt",
		SaltIndex:  1,
		HostURL:    srv.URL,
	})

	_, err := gw.InitiatePayment(context.Background(), 500, "MT-1", "", "")
	assert.Error(t, err)
}
