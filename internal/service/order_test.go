package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/repository"
)

var uniqueIDExp = regexp.MustCompile(`^FEST-\d{4}$`)

type fakeOrderRepo struct {
	orders map[string]domain.Order

	createCalls   int
	collideFirstN int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[string]domain.Order),
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, order domain.Order) (domain.Order, error) {
	f.createCalls++
	if f.createCalls <= f.collideFirstN {
		return domain.Order{}, repository.ErrOrderCodeExists
	}
	if _, ok := f.orders[order.UniqueID]; ok {
		return domain.Order{}, repository.ErrOrderCodeExists
	}

	order.ID = uint(len(f.orders) + 1)
	f.orders[order.UniqueID] = order

	return order, nil
}

func (f *fakeOrderRepo) FindByUniqueID(_ context.Context, uniqueID string) (domain.Order, error) {
	order, ok := f.orders[uniqueID]
	if !ok {
		return domain.Order{}, repository.ErrOrderNotFound
	}

	return order, nil
}

func (f *fakeOrderRepo) MarkUsed(_ context.Context, uniqueID string) (bool, error) {
	order, ok := f.orders[uniqueID]
	if !ok || order.Status == domain.OrderUsed {
		return false, nil
	}

	order.Status = domain.OrderUsed
	f.orders[uniqueID] = order

	return true, nil
}

func (f *fakeOrderRepo) FindByContact(_ context.Context, mobileNumber, email string) ([]domain.Order, error) {
	found := []domain.Order{}
	for _, order := range f.orders {
		if (mobileNumber != "" && order.MobileNumber == mobileNumber) ||
			(email != "" && order.Email == email) {
			found = append(found, order)
		}
	}

	return found, nil
}

func (f *fakeOrderRepo) FindAll(_ context.Context) ([]domain.Order, error) {
	all := []domain.Order{}
	for _, order := range f.orders {
		all = append(all, order)
	}

	return all, nil
}

func TestOrderService_GenerateOrder(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo)

	items := []domain.OrderItem{
		{Name: "Pass", Price: 500},
		{Name: "Meal", Price: 150},
	}

	order, err := svc.GenerateOrder(ctx, items, "9998887777", "a@b.com", "")
	require.NoError(t, err)

	assert.Regexp(t, uniqueIDExp, order.UniqueID)
	assert.Equal(t, domain.OrderUnused, order.Status)
	assert.Equal(t, domain.TransactionIDNotProvided, order.TransactionID)
	// The total always comes from the item snapshots, never the client.
	assert.Equal(t, 650, order.TotalAmount)
}

func TestOrderService_GenerateOrder_RetriesCollidingCodes(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	repo.collideFirstN = 3
	svc := NewOrderService(repo)

	order, err := svc.GenerateOrder(ctx, []domain.OrderItem{{Name: "Pass", Price: 500}}, "", "", "")
	require.NoError(t, err)

	assert.Regexp(t, uniqueIDExp, order.UniqueID)
	assert.Equal(t, 4, repo.createCalls)
}

func TestOrderService_GenerateOrder_CodeSpaceExhausted(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	repo.collideFirstN = maxIDAttempts
	svc := NewOrderService(repo)

	_, err := svc.GenerateOrder(ctx, []domain.OrderItem{{Name: "Pass", Price: 500}}, "", "", "")

	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
}

func TestOrderService_Redeem(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo)

	order, err := svc.GenerateOrder(ctx, []domain.OrderItem{{Name: "Pass", Price: 500}}, "", "", "")
	require.NoError(t, err)

	result, redeemed, err := svc.Redeem(ctx, order.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionVerified, result)
	assert.Equal(t, domain.OrderUsed, redeemed.Status)

	result, redeemed, err = svc.Redeem(ctx, order.UniqueID)
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionAlreadyUsed, result)
	assert.Equal(t, domain.OrderUsed, redeemed.Status)

	result, _, err = svc.Redeem(ctx, "FEST-0000")
	require.NoError(t, err)
	assert.Equal(t, domain.RedemptionNotFound, result)
}

func TestOrderService_MyOrders(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOrderRepo()
	svc := NewOrderService(repo)

	_, err := svc.GenerateOrder(ctx, []domain.OrderItem{{Name: "Pass", Price: 500}}, "9998887777", "-", "")
	require.NoError(t, err)

	tests := []struct {
		name         string
		mobileNumber string
		email        string
		wantCount    int
	}{
		{
			name:         "by mobile number",
			mobileNumber: "9998887777",
			wantCount:    1,
		},
		{
			name:      "dash email never matches stored dashes",
			email:     "-",
			wantCount: 0,
		},
		{
			name:      "no identifiers",
			wantCount: 0,
		},
		{
			name:      "unknown email",
			email:     "nobody@example.com",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders, err := svc.MyOrders(ctx, tt.mobileNumber, tt.email)

			require.NoError(t, err)
			assert.Len(t, orders, tt.wantCount)
			assert.NotNil(t, orders)
		})
	}
}
