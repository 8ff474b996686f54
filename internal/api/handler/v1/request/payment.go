package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateGatewayOrderRequest struct {
	Amount int `json:"amount"`
}

func (req *CreateGatewayOrderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
	)
}

type PhonePePayRequest struct {
	Amount       int    `json:"amount"`
	MobileNumber string `json:"mobileNumber"`
}

func (req *PhonePePayRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
	)
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string      `json:"razorpay_order_id"`
	RazorpayPaymentID string      `json:"razorpay_payment_id"`
	RazorpaySignature string      `json:"razorpay_signature"`
	Items             []OrderItem `json:"items"`
	TotalAmount       int         `json:"totalAmount"`
	MobileNumber      string      `json:"mobileNumber"`
	Email             string      `json:"email"`
}

func (req *VerifyPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.RazorpayOrderID, validation.Required),
		validation.Field(&req.RazorpayPaymentID, validation.Required),
		validation.Field(&req.RazorpaySignature, validation.Required),
		validation.Field(&req.Items, validation.Required, validation.Length(1, 0)),
	)
}
