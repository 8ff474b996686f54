package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/repository"
)

type fakeOrderService struct {
	orders map[string]domain.Order
}

func newFakeOrderService() *fakeOrderService {
	return &fakeOrderService{
		orders: make(map[string]domain.Order),
	}
}

func (f *fakeOrderService) GenerateOrder(_ context.Context, items []domain.OrderItem, mobileNumber, email, transactionID string) (domain.Order, error) {
	order := domain.Order{
		UniqueID:     "FEST-1234",
		Status:       domain.OrderUnused,
		Items:        items,
		TotalAmount:  domain.TotalFromItems(items),
		MobileNumber: mobileNumber,
		Email:        email,
	}
	f.orders[order.UniqueID] = order

	return order, nil
}

func (f *fakeOrderService) Redeem(_ context.Context, uniqueID string) (domain.RedemptionResult, domain.Order, error) {
	order, ok := f.orders[uniqueID]
	if !ok {
		return domain.RedemptionNotFound, domain.Order{}, nil
	}
	if order.Status == domain.OrderUsed {
		return domain.RedemptionAlreadyUsed, order, nil
	}

	order.Status = domain.OrderUsed
	f.orders[uniqueID] = order

	return domain.RedemptionVerified, order, nil
}

func (f *fakeOrderService) CheckID(_ context.Context, uniqueID string) (domain.Order, error) {
	order, ok := f.orders[uniqueID]
	if !ok {
		return domain.Order{}, repository.ErrOrderNotFound
	}

	return order, nil
}

func (f *fakeOrderService) MyOrders(_ context.Context, mobileNumber, email string) ([]domain.Order, error) {
	found := []domain.Order{}
	for _, order := range f.orders {
		if (mobileNumber != "" && mobileNumber != "-" && order.MobileNumber == mobileNumber) ||
			(email != "" && email != "-" && order.Email == email) {
			found = append(found, order)
		}
	}

	return found, nil
}

func (f *fakeOrderService) AllOrders(_ context.Context) ([]domain.Order, error) {
	all := []domain.Order{}
	for _, order := range f.orders {
		all = append(all, order)
	}

	return all, nil
}

func setupOrdersRouter(svc OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewOrdersHandler(svc)
	router.POST("/api/generate-id", handler.HandleGenerateID)
	router.POST("/api/check-id", handler.HandleCheckID)
	router.POST("/api/mark-used", handler.HandleMarkUsed)
	router.POST("/api/my-orders", handler.HandleMyOrders)
	router.GET("/api/ticket-qr/:uniqueId", handler.HandleTicketQR)

	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	return resp
}

func TestHandleGenerateID(t *testing.T) {
	router := setupOrdersRouter(newFakeOrderService())

	resp := postJSON(router, "/api/generate-id", gin.H{
		"items":        []gin.H{{"name": "Pass", "price": 500}},
		"mobileNumber": "9998887777",
	})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"uniqueId": "FEST-1234"}`, resp.Body.String())
}

func TestHandleGenerateID_NoItems(t *testing.T) {
	router := setupOrdersRouter(newFakeOrderService())

	resp := postJSON(router, "/api/generate-id", gin.H{"items": []gin.H{}})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleMarkUsed(t *testing.T) {
	svc := newFakeOrderService()
	router := setupOrdersRouter(svc)

	_, err := svc.GenerateOrder(context.Background(), []domain.OrderItem{{Name: "Pass", Price: 500}}, "", "", "")
	require.NoError(t, err)

	resp := postJSON(router, "/api/mark-used", gin.H{"uniqueId": "FEST-1234"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Verified Successfully")

	resp = postJSON(router, "/api/mark-used", gin.H{"uniqueId": "FEST-1234"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "ALREADY USED!")

	resp = postJSON(router, "/api/mark-used", gin.H{"uniqueId": "FEST-0000"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandleCheckID(t *testing.T) {
	svc := newFakeOrderService()
	router := setupOrdersRouter(svc)

	_, err := svc.GenerateOrder(context.Background(), []domain.OrderItem{{Name: "Pass", Price: 500}}, "", "", "")
	require.NoError(t, err)

	resp := postJSON(router, "/api/check-id", gin.H{"uniqueId": "FEST-1234"})
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Status string       `json:"status"`
		Order  domain.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "unused", body.Status)
	assert.Equal(t, "FEST-1234", body.Order.UniqueID)

	resp = postJSON(router, "/api/check-id", gin.H{"uniqueId": "FEST-0000"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandleMyOrders(t *testing.T) {
	svc := newFakeOrderService()
	router := setupOrdersRouter(svc)

	_, err := svc.GenerateOrder(context.Background(), []domain.OrderItem{{Name: "Pass", Price: 500}}, "9998887777", "-", "")
	require.NoError(t, err)

	resp := postJSON(router, "/api/my-orders", gin.H{"mobileNumber": "9998887777", "email": "-"})
	require.Equal(t, http.StatusOK, resp.Code)

	var orders []domain.Order
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)

	// Neither identifier present at all is a client error.
	resp = postJSON(router, "/api/my-orders", gin.H{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleTicketQR(t *testing.T) {
	svc := newFakeOrderService()
	router := setupOrdersRouter(svc)

	_, err := svc.GenerateOrder(context.Background(), []domain.OrderItem{{Name: "Pass", Price: 500}}, "", "", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/ticket-qr/FEST-1234", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/jpeg", resp.Header().Get("Content-Type"))
	assert.NotEmpty(t, resp.Body.Bytes())

	req = httptest.NewRequest(http.MethodGet, "/api/ticket-qr/FEST-0000", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
