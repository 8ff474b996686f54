package repository

import (
	"context"
	"fmt"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/repository/dao"
)

var (
	ErrOrderCodeExists = dao.ErrOrderCodeExists
	ErrOrderNotFound   = dao.ErrOrderNotFound
)

type OrderDAO interface {
	Insert(ctx context.Context, order dao.Order) (dao.Order, error)
	FindByUniqueID(ctx context.Context, uniqueID string) (dao.Order, error)
	MarkUsed(ctx context.Context, uniqueID string) (bool, error)
	FindByContact(ctx context.Context, mobileNumber, email string) ([]dao.Order, error)
	FindAll(ctx context.Context) ([]dao.Order, error)
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.Insert(ctx, orderToDAO(order))
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return orderToDomain(created), nil
}

func (r *OrderRepository) FindByUniqueID(ctx context.Context, uniqueID string) (domain.Order, error) {
	found, err := r.dao.FindByUniqueID(ctx, uniqueID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByUniqueID -> %w", err)
	}

	return orderToDomain(found), nil
}

func (r *OrderRepository) MarkUsed(ctx context.Context, uniqueID string) (bool, error) {
	updated, err := r.dao.MarkUsed(ctx, uniqueID)
	if err != nil {
		return false, fmt.Errorf("r.dao.MarkUsed -> %w", err)
	}

	return updated, nil
}

func (r *OrderRepository) FindByContact(ctx context.Context, mobileNumber, email string) ([]domain.Order, error) {
	found, err := r.dao.FindByContact(ctx, mobileNumber, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByContact -> %w", err)
	}

	return ordersToDomain(found), nil
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return ordersToDomain(found), nil
}

func orderToDAO(o domain.Order) dao.Order {
	items := make([]dao.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dao.OrderItem{
			Name:  it.Name,
			Price: it.Price,
		})
	}

	return dao.Order{
		UniqueID:      o.UniqueID,
		Status:        string(o.Status),
		Items:         items,
		TotalAmount:   o.TotalAmount,
		MobileNumber:  o.MobileNumber,
		Email:         o.Email,
		TransactionID: o.TransactionID,
	}
}

func orderToDomain(o dao.Order) domain.Order {
	items := make([]domain.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, domain.OrderItem{
			Name:  it.Name,
			Price: it.Price,
		})
	}

	return domain.Order{
		ID:            o.ID,
		UniqueID:      o.UniqueID,
		Status:        domain.OrderStatus(o.Status),
		Items:         items,
		TotalAmount:   o.TotalAmount,
		MobileNumber:  o.MobileNumber,
		Email:         o.Email,
		TransactionID: o.TransactionID,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func ordersToDomain(found []dao.Order) []domain.Order {
	orders := make([]domain.Order, 0, len(found))
	for _, o := range found {
		orders = append(orders, orderToDomain(o))
	}

	return orders
}
