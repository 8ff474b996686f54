package response

import "github.com/festpass/festpass-api/internal/domain"

type GenerateIDResponse struct {
	UniqueID string `json:"uniqueId"`
}

type CheckIDResponse struct {
	Status domain.OrderStatus `json:"status"`
	Order  domain.Order       `json:"order"`
}

type MarkUsedResponse struct {
	Message string       `json:"message"`
	Order   domain.Order `json:"order"`
}

type CreateGatewayOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

type VerifyPaymentResponse struct {
	Message  string `json:"message"`
	UniqueID string `json:"uniqueId"`
}

type PhonePePayResponse struct {
	RedirectURL   string `json:"redirectUrl"`
	TransactionID string `json:"transactionId"`
}

type ConfigResponse struct {
	UPIID        string `json:"upiId"`
	MerchantName string `json:"merchantName"`
}
