package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/repository/dao"
)

var (
	ErrPaymentRecordExists   = dao.ErrPaymentRecordExists
	ErrPaymentRecordNotFound = dao.ErrPaymentRecordNotFound
)

type OutboxDAO interface {
	Insert(ctx context.Context, record dao.PaymentRecord) (dao.PaymentRecord, error)
	FindByPaymentID(ctx context.Context, paymentID string) (dao.PaymentRecord, error)
	FindPending(ctx context.Context, limit int) ([]dao.PaymentRecord, error)
	RecordOrder(ctx context.Context, recordID uint, order dao.Order) (dao.Order, error)
	MarkAttempt(ctx context.Context, recordID uint, attemptErr string) error
}

type OutboxRepository struct {
	dao OutboxDAO
}

func NewOutboxRepository(dao OutboxDAO) *OutboxRepository {
	return &OutboxRepository{
		dao: dao,
	}
}

func (r *OutboxRepository) Create(ctx context.Context, record domain.PaymentRecord) (domain.PaymentRecord, error) {
	itemsJSON, err := json.Marshal(record.Items)
	if err != nil {
		return domain.PaymentRecord{}, fmt.Errorf("json.Marshal -> %w", err)
	}

	created, err := r.dao.Insert(ctx, dao.PaymentRecord{
		Reference:    record.Reference,
		PaymentID:    record.PaymentID,
		GatewayOrder: record.GatewayOrder,
		State:        string(domain.PaymentRecordPending),
		ItemsJSON:    string(itemsJSON),
		MobileNumber: record.MobileNumber,
		Email:        record.Email,
	})
	if err != nil {
		return domain.PaymentRecord{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created)
}

func (r *OutboxRepository) FindByPaymentID(ctx context.Context, paymentID string) (domain.PaymentRecord, error) {
	found, err := r.dao.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return domain.PaymentRecord{}, fmt.Errorf("r.dao.FindByPaymentID -> %w", err)
	}

	return r.daoToDomain(found)
}

func (r *OutboxRepository) FindPending(ctx context.Context, limit int) ([]domain.PaymentRecord, error) {
	found, err := r.dao.FindPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPending -> %w", err)
	}

	records := make([]domain.PaymentRecord, 0, len(found))
	for _, rec := range found {
		record, err := r.daoToDomain(rec)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// RecordOrder writes the ledger entry and flips the record to recorded atomically.
func (r *OutboxRepository) RecordOrder(ctx context.Context, recordID uint, order domain.Order) (domain.Order, error) {
	created, err := r.dao.RecordOrder(ctx, recordID, orderToDAO(order))
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.RecordOrder -> %w", err)
	}

	return orderToDomain(created), nil
}

func (r *OutboxRepository) MarkAttempt(ctx context.Context, recordID uint, attemptErr string) error {
	if err := r.dao.MarkAttempt(ctx, recordID, attemptErr); err != nil {
		return fmt.Errorf("r.dao.MarkAttempt -> %w", err)
	}

	return nil
}

func (r *OutboxRepository) daoToDomain(rec dao.PaymentRecord) (domain.PaymentRecord, error) {
	var items []domain.OrderItem
	if err := json.Unmarshal([]byte(rec.ItemsJSON), &items); err != nil {
		return domain.PaymentRecord{}, fmt.Errorf("json.Unmarshal -> %w", err)
	}

	return domain.PaymentRecord{
		ID:            rec.ID,
		Reference:     rec.Reference,
		PaymentID:     rec.PaymentID,
		GatewayOrder:  rec.GatewayOrder,
		State:         domain.PaymentRecordState(rec.State),
		Items:         items,
		MobileNumber:  rec.MobileNumber,
		Email:         rec.Email,
		Attempts:      rec.Attempts,
		LastError:     rec.LastError,
		OrderUniqueID: rec.OrderUniqueID,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}, nil
}
