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
	ErrOrderCodeExists = errors.New("order code already exists")
	ErrOrderNotFound   = errors.New("order not found")
)

type Order struct {
	ID uint `gorm:"primaryKey"`

	UniqueID string `gorm:"uniqueIndex;not null"`
	Status   string `gorm:"not null;default:unused"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	TotalAmount   int    `gorm:"not null"`
	MobileNumber  string `gorm:"index"`
	Email         string `gorm:"index"`
	TransactionID string `gorm:"not null;default:NOT_PROVIDED"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// OrderItem is the purchase-time snapshot row. It is never updated after insert.
type OrderItem struct {
	ID      uint   `gorm:"primaryKey"`
	OrderID uint   `gorm:"index;not null"`
	Name    string `gorm:"not null"`
	Price   int    `gorm:"not null"`
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

func (d *OrderDAO) Insert(ctx context.Context, order Order) (Order, error) {
	result := d.db.WithContext(ctx).Create(&order)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Order{}, ErrOrderCodeExists
		}

		return Order{}, result.Error
	}

	return order, nil
}

func (d *OrderDAO) FindByUniqueID(ctx context.Context, uniqueID string) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).
		Preload("Items").
		First(&order, "unique_id = ?", uniqueID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, ErrOrderNotFound
		}

		return Order{}, result.Error
	}

	return order, nil
}

// MarkUsed performs the single atomic conditional update that makes redemption
// race-safe. It must never be split into a read followed by a write.
func (d *OrderDAO) MarkUsed(ctx context.Context, uniqueID string) (bool, error) {
	result := d.db.WithContext(ctx).
		Model(&Order{}).
		Where("unique_id = ? AND status <> ?", uniqueID, "used").
		Update("status", "used")
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// FindByContact matches on mobile number OR email. Empty arguments mean
// "do not filter on this field"; both empty returns the empty list.
func (d *OrderDAO) FindByContact(ctx context.Context, mobileNumber, email string) ([]Order, error) {
	tx := d.db.WithContext(ctx).Preload("Items").Order("created_at DESC")

	switch {
	case mobileNumber != "" && email != "":
		tx = tx.Where("mobile_number = ? OR email = ?", mobileNumber, email)
	case mobileNumber != "":
		tx = tx.Where("mobile_number = ?", mobileNumber)
	case email != "":
		tx = tx.Where("email = ?", email)
	default:
		return []Order{}, nil
	}

	var orders []Order
	if result := tx.Find(&orders); result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

func (d *OrderDAO) FindAll(ctx context.Context) ([]Order, error) {
	var orders []Order

	result := d.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders)
	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}
