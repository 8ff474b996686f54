package domain

import "time"

type OrderStatus string

const (
	OrderUnused OrderStatus = "unused"
	OrderUsed   OrderStatus = "used"
)

// TransactionIDNotProvided is stored when an order was generated without a
// gateway payment behind it (manual admin generation).
const TransactionIDNotProvided = "NOT_PROVIDED"

// OrderItem is a snapshot of a catalog item at purchase time. Later catalog
// edits never change it.
type OrderItem struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type Order struct {
	ID            uint        `json:"id"`
	UniqueID      string      `json:"uniqueId"`
	Status        OrderStatus `json:"status"`
	Items         []OrderItem `json:"items"`
	TotalAmount   int         `json:"totalAmount"`
	MobileNumber  string      `json:"mobileNumber"`
	Email         string      `json:"email"`
	TransactionID string      `json:"transactionId"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TotalFromItems is the server-side total; client-claimed totals are ignored.
func TotalFromItems(items []OrderItem) int {
	total := 0
	for _, it := range items {
		total += it.Price
	}
	return total
}

// RedemptionResult classifies the outcome of marking a code as used.
type RedemptionResult string

const (
	RedemptionVerified    RedemptionResult = "Verified"
	RedemptionAlreadyUsed RedemptionResult = "AlreadyUsed"
	RedemptionNotFound    RedemptionResult = "NotFound"
)
