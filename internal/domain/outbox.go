package domain

import "time"

type PaymentRecordState string

const (
	PaymentRecordPending  PaymentRecordState = "pending"
	PaymentRecordRecorded PaymentRecordState = "recorded"
)

// PaymentRecord is the durable trace of a verified gateway payment. It is
// written before the ledger entry so a verified payment that fails to record
// can always be retried, never silently lost.
type PaymentRecord struct {
	ID            uint               `json:"id"`
	Reference     string             `json:"reference"`
	PaymentID     string             `json:"paymentId"`
	GatewayOrder  string             `json:"gatewayOrder"`
	State         PaymentRecordState `json:"state"`
	Items         []OrderItem        `json:"items"`
	MobileNumber  string             `json:"mobileNumber"`
	Email         string             `json:"email"`
	Attempts      int                `json:"attempts"`
	LastError     string             `json:"lastError"`
	OrderUniqueID string             `json:"orderUniqueId"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
