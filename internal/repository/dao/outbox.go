package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPaymentRecordExists   = errors.New("payment already recorded")
	ErrPaymentRecordNotFound = errors.New("payment record not found")
)

// PaymentRecord is the outbox row written after signature verification and
// before the ledger entry. PaymentID carries a unique index so a replayed
// gateway callback cannot create a second ticket.
type PaymentRecord struct {
	ID uint `gorm:"primaryKey"`

	Reference    string `gorm:"not null"`
	PaymentID    string `gorm:"uniqueIndex;not null"`
	GatewayOrder string `gorm:"not null"`
	State        string `gorm:"not null;default:pending"`

	ItemsJSON    string `gorm:"not null"`
	MobileNumber string
	Email        string

	Attempts      int `gorm:"not null;default:0"`
	LastError     string
	OrderUniqueID string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (PaymentRecord) TableName() string {
	return "payment_outbox"
}

type OutboxDAO struct {
	db *gorm.DB
}

func NewOutboxDAO(db *gorm.DB) *OutboxDAO {
	return &OutboxDAO{
		db: db,
	}
}

func (d *OutboxDAO) Insert(ctx context.Context, record PaymentRecord) (PaymentRecord, error) {
	result := d.db.WithContext(ctx).Create(&record)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return PaymentRecord{}, ErrPaymentRecordExists
		}

		return PaymentRecord{}, result.Error
	}

	return record, nil
}

func (d *OutboxDAO) FindByPaymentID(ctx context.Context, paymentID string) (PaymentRecord, error) {
	var record PaymentRecord

	result := d.db.WithContext(ctx).First(&record, "payment_id = ?", paymentID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PaymentRecord{}, ErrPaymentRecordNotFound
		}

		return PaymentRecord{}, result.Error
	}

	return record, nil
}

func (d *OutboxDAO) FindPending(ctx context.Context, limit int) ([]PaymentRecord, error) {
	var records []PaymentRecord

	result := d.db.WithContext(ctx).
		Where("state = ?", "pending").
		Order("created_at ASC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

// RecordOrder creates the ledger entry and flips the outbox row to recorded in
// one transaction, so the row can never claim an order that was not written.
func (d *OutboxDAO) RecordOrder(ctx context.Context, recordID uint, order Order) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&order); result.Error != nil {
			var pgErr *pgconn.PgError
			if errors.As(result.Error, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrOrderCodeExists
			}

			return result.Error
		}

		result := tx.Model(&PaymentRecord{}).
			Where("id = ? AND state = ?", recordID, "pending").
			Updates(map[string]any{
				"state":           "recorded",
				"order_unique_id": order.UniqueID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPaymentRecordNotFound
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

func (d *OutboxDAO) MarkAttempt(ctx context.Context, recordID uint, attemptErr string) error {
	result := d.db.WithContext(ctx).
		Model(&PaymentRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": attemptErr,
		})

	return result.Error
}
