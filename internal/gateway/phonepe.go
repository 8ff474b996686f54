package gateway

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/festpass/festpass-api/internal/config"
)

const phonePePayPath = "/pg/v1/pay"

// PhonePeGateway initiates pay-page transactions against the PhonePe Hermes API.
type PhonePeGateway struct {
	conf       *config.PhonePeConfig
	httpClient *http.Client
}

func NewPhonePeGateway(conf *config.PhonePeConfig) *PhonePeGateway {
	return &PhonePeGateway{
		conf: conf,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type phonePePayRequest struct {
	MerchantID            string `json:"merchantId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	MerchantUserID        string `json:"merchantUserId"`
	Amount                int    `json:"amount"`
	RedirectURL           string `json:"redirectUrl"`
	RedirectMode          string `json:"redirectMode"`
	CallbackURL           string `json:"callbackUrl"`
	MobileNumber          string `json:"mobileNumber"`
	PaymentInstrument     struct {
		Type string `json:"type"`
	} `json:"paymentInstrument"`
}

type phonePePayResponse struct {
	Success bool `json:"success"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// InitiatePayment creates a pay-page transaction and returns the redirect URL.
// Amount is in rupees; PhonePe wants paise.
func (g *PhonePeGateway) InitiatePayment(ctx context.Context, amount int, transactionID, mobileNumber, callbackURL string) (string, error) {
	payReq := phonePePayRequest{
		MerchantID:            g.conf.MerchantID,
		MerchantTransactionID: transactionID,
		MerchantUserID:        "MUID-" + transactionID,
		Amount:                amount * 100,
		RedirectURL:           callbackURL,
		RedirectMode:          "POST",
		CallbackURL:           callbackURL,
		MobileNumber:          mobileNumber,
	}
	payReq.PaymentInstrument.Type = "PAY_PAGE"

	payload, err := json.Marshal(payReq)
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(payload)
	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return "", fmt.Errorf("json.Marshal -> %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.conf.HostURL+phonePePayPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext -> %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", g.checksum(encoded))

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("g.httpClient.Do -> %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway returned status %v", resp.StatusCode)
	}

	var payResp phonePePayResponse
	if err = json.NewDecoder(resp.Body).Decode(&payResp); err != nil {
		return "", fmt.Errorf("json.Decode -> %w", err)
	}
	if !payResp.Success {
		return "", errors.New("gateway rejected the pay request")
	}

	return payResp.Data.InstrumentResponse.RedirectInfo.URL, nil
}

// checksum is PhonePe's X-VERIFY: sha256(base64Payload + path + saltKey) + "###" + saltIndex.
func (g *PhonePeGateway) checksum(encodedPayload string) string {
	sum := sha256.Sum256([]byte(encodedPayload + phonePePayPath + g.conf.SaltKey))

	return fmt.Sprintf("%s###%d", hex.EncodeToString(sum[:]), g.conf.SaltIndex)
}
