package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/festpass/festpass-api/internal/config"
)

var ErrSignatureMismatch = errors.New("payment signature verification failed")

// RazorpayGateway wraps the Razorpay REST client. It is constructed once and
// injected; handlers never reach for process-wide gateway state.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
	currency  string
}

func NewRazorpayGateway(conf *config.RazorpayConfig) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(conf.KeyID, conf.KeySecret),
		keySecret: conf.KeySecret,
		currency:  conf.Currency,
	}
}

// CreateOrder registers an order with the gateway and returns its id.
// Amount is in rupees; Razorpay wants paise.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int, receipt string) (string, error) {
	type result struct {
		orderID string
		err     error
	}

	ch := make(chan result, 1)
	go func() {
		data := map[string]interface{}{
			"amount":   amount * 100,
			"currency": g.currency,
			"receipt":  receipt,
		}
		body, err := g.client.Order.Create(data, nil)
		if err != nil {
			ch <- result{err: fmt.Errorf("g.client.Order.Create -> %w", err)}
			return
		}

		orderID, ok := body["id"].(string)
		if !ok {
			ch <- result{err: errors.New("gateway response missing order id")}
			return
		}
		ch <- result{orderID: orderID}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.orderID, r.err
	}
}

// VerifySignature recomputes the HMAC-SHA256 of "orderID|paymentID" with the
// key secret and compares it to the supplied signature in constant time.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}

	return nil
}
