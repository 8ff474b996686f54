package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errMissingIdentifiers = errors.New("User identifier required")

type OrderItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func (it OrderItem) Validate() error {
	return validation.ValidateStruct(
		&it,
		validation.Field(&it.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&it.Price, validation.Min(0)),
	)
}

type GenerateIDRequest struct {
	Items         []OrderItem `json:"items"`
	TotalAmount   int         `json:"totalAmount"`
	MobileNumber  string      `json:"mobileNumber"`
	Email         string      `json:"email"`
	TransactionID string      `json:"transactionId"`
}

func (req *GenerateIDRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Items, validation.Required, validation.Length(1, 0)),
	)
}

type CheckIDRequest struct {
	UniqueID string `json:"uniqueId"`
}

func (req *CheckIDRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UniqueID, validation.Required),
	)
}

type MarkUsedRequest struct {
	UniqueID string `json:"uniqueId"`
}

func (req *MarkUsedRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UniqueID, validation.Required),
	)
}

type MyOrdersRequest struct {
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
}

// Validate rejects requests carrying no identifier at all. The "-" sentinel
// counts as present here; the service treats it as "do not filter".
func (req *MyOrdersRequest) Validate() error {
	if req.MobileNumber == "" && req.Email == "" {
		return errMissingIdentifiers
	}

	return nil
}
