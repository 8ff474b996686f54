package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/repository"
)

var (
	ErrOrderNotFound = repository.ErrOrderNotFound

	// ErrCodeSpaceExhausted means every generation attempt collided with an
	// existing code. With a 9000-code namespace this signals the festival has
	// outgrown the 4-digit format.
	ErrCodeSpaceExhausted = errors.New("could not generate a unique order code")
)

const (
	uniqueIDPrefix = "FEST-"
	maxIDAttempts  = 5
)

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	FindByUniqueID(ctx context.Context, uniqueID string) (domain.Order, error)
	MarkUsed(ctx context.Context, uniqueID string) (bool, error)
	FindByContact(ctx context.Context, mobileNumber, email string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
}

type OrderService struct {
	repo OrderRepository
}

func NewOrderService(repo OrderRepository) *OrderService {
	return &OrderService{
		repo: repo,
	}
}

// newUniqueID produces a human-shareable code like FEST-4821. Uniqueness is
// enforced by the store; callers retry on collision.
func newUniqueID() string {
	return fmt.Sprintf("%v%d", uniqueIDPrefix, 1000+rand.Intn(9000))
}

// GenerateOrder creates a ledger entry with a fresh code. The total is always
// recomputed from the item snapshots; client-claimed totals are not trusted.
func (s *OrderService) GenerateOrder(ctx context.Context, items []domain.OrderItem, mobileNumber, email, transactionID string) (domain.Order, error) {
	if transactionID == "" {
		transactionID = domain.TransactionIDNotProvided
	}

	order := domain.Order{
		Status:        domain.OrderUnused,
		Items:         items,
		TotalAmount:   domain.TotalFromItems(items),
		MobileNumber:  mobileNumber,
		Email:         email,
		TransactionID: transactionID,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		order.UniqueID = newUniqueID()

		created, err := s.repo.Create(ctx, order)
		if err != nil {
			if errors.Is(err, repository.ErrOrderCodeExists) {
				continue
			}

			return domain.Order{}, fmt.Errorf("s.repo.Create -> %w", err)
		}

		return created, nil
	}

	return domain.Order{}, ErrCodeSpaceExhausted
}

// Redeem flips a code from unused to used exactly once. The store performs the
// conditional update atomically; when no row is touched, a second lookup only
// classifies the failure.
func (s *OrderService) Redeem(ctx context.Context, uniqueID string) (domain.RedemptionResult, domain.Order, error) {
	updated, err := s.repo.MarkUsed(ctx, uniqueID)
	if err != nil {
		return "", domain.Order{}, fmt.Errorf("s.repo.MarkUsed -> %w", err)
	}

	order, err := s.repo.FindByUniqueID(ctx, uniqueID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.RedemptionNotFound, domain.Order{}, nil
		}

		return "", domain.Order{}, fmt.Errorf("s.repo.FindByUniqueID -> %w", err)
	}

	if updated {
		return domain.RedemptionVerified, order, nil
	}

	return domain.RedemptionAlreadyUsed, order, nil
}

func (s *OrderService) CheckID(ctx context.Context, uniqueID string) (domain.Order, error) {
	order, err := s.repo.FindByUniqueID(ctx, uniqueID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.FindByUniqueID -> %w", err)
	}

	return order, nil
}

// MyOrders looks up orders by contact. "-" is the client's sentinel for
// "not provided"; it must never match records whose stored value is "-".
func (s *OrderService) MyOrders(ctx context.Context, mobileNumber, email string) ([]domain.Order, error) {
	if mobileNumber == "-" {
		mobileNumber = ""
	}
	if email == "-" {
		email = ""
	}
	if mobileNumber == "" && email == "" {
		return []domain.Order{}, nil
	}

	orders, err := s.repo.FindByContact(ctx, mobileNumber, email)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByContact -> %w", err)
	}

	return orders, nil
}

func (s *OrderService) AllOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return orders, nil
}
