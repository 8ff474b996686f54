package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/yeqown/go-qrcode"

	"github.com/festpass/festpass-api/internal/api/handler/v1/request"
	"github.com/festpass/festpass-api/internal/api/handler/v1/response"
	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/service"
)

type OrderService interface {
	GenerateOrder(ctx context.Context, items []domain.OrderItem, mobileNumber, email, transactionID string) (domain.Order, error)
	Redeem(ctx context.Context, uniqueID string) (domain.RedemptionResult, domain.Order, error)
	CheckID(ctx context.Context, uniqueID string) (domain.Order, error)
	MyOrders(ctx context.Context, mobileNumber, email string) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
}

type OrdersHandler struct {
	svc OrderService
}

func NewOrdersHandler(svc OrderService) *OrdersHandler {
	return &OrdersHandler{
		svc: svc,
	}
}

// HandleGenerateID godoc
// @Summary      Create an order and mint its redeemable code
// @Tags         orders
// @Produce      json
// @Param        request   body      request.GenerateIDRequest true "request body"
// @Success      200      {object}   response.GenerateIDResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /generate-id [post]
func (h *OrdersHandler) HandleGenerateID(ctx *gin.Context) {
	req := request.GenerateIDRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.GenerateOrder(ctx.Request.Context(), orderItemsFromRequest(req.Items), req.MobileNumber, req.Email, req.TransactionID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGenerateID -> h.svc.GenerateOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.GenerateIDResponse{UniqueID: order.UniqueID})
}

// HandleCheckID godoc
// @Summary      Look up an order by its code without consuming it
// @Tags         orders
// @Produce      json
// @Param        request   body      request.CheckIDRequest true "request body"
// @Success      200      {object}   response.CheckIDResponse
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /check-id [post]
func (h *OrdersHandler) HandleCheckID(ctx *gin.Context) {
	req := request.CheckIDRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.CheckID(ctx.Request.Context(), req.UniqueID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "uniqueId", req.UniqueID))
			return
		}

		err = fmt.Errorf("v1.HandleCheckID -> h.svc.CheckID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.CheckIDResponse{
		Status: order.Status,
		Order:  order,
	})
}

// HandleMarkUsed godoc
// @Summary      Redeem a code; succeeds exactly once per code
// @Tags         orders
// @Produce      json
// @Param        request   body      request.MarkUsedRequest true "request body"
// @Success      200      {object}   response.MarkUsedResponse
// @Failure      400      {object}   response.MarkUsedResponse
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /mark-used [post]
func (h *OrdersHandler) HandleMarkUsed(ctx *gin.Context) {
	req := request.MarkUsedRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, order, err := h.svc.Redeem(ctx.Request.Context(), req.UniqueID)
	if err != nil {
		err = fmt.Errorf("v1.HandleMarkUsed -> h.svc.Redeem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	switch result {
	case domain.RedemptionVerified:
		ctx.JSON(http.StatusOK, response.MarkUsedResponse{
			Message: "Verified Successfully",
			Order:   order,
		})
	case domain.RedemptionAlreadyUsed:
		ctx.JSON(http.StatusBadRequest, response.MarkUsedResponse{
			Message: "ALREADY USED!",
			Order:   order,
		})
	default:
		response.RenderErr(ctx, response.ErrNotFound("order", "uniqueId", req.UniqueID))
	}
}

// HandleMyOrders godoc
// @Summary      List the caller's orders by mobile number or email
// @Tags         orders
// @Produce      json
// @Param        request   body      request.MyOrdersRequest true "request body"
// @Success      200      {object}   []domain.Order
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /my-orders [post]
func (h *OrdersHandler) HandleMyOrders(ctx *gin.Context) {
	req := request.MyOrdersRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	orders, err := h.svc.MyOrders(ctx.Request.Context(), req.MobileNumber, req.Email)
	if err != nil {
		err = fmt.Errorf("v1.HandleMyOrders -> h.svc.MyOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleAdminOrders godoc
// @Summary      List every order, newest first
// @Tags         orders
// @Produce      json
// @Success      200      {object}   []domain.Order
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /orders [get]
func (h *OrdersHandler) HandleAdminOrders(ctx *gin.Context) {
	orders, err := h.svc.AllOrders(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleAdminOrders -> h.svc.AllOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

// HandleTicketQR godoc
// @Summary      Render an order's code as a QR image
// @Tags         orders
// @Produce      jpeg
// @Param        uniqueId   path     string true "order code"
// @Success      200
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /ticket-qr/{uniqueId} [get]
func (h *OrdersHandler) HandleTicketQR(ctx *gin.Context) {
	uniqueID := ctx.Param("uniqueId")

	order, err := h.svc.CheckID(ctx.Request.Context(), uniqueID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "uniqueId", uniqueID))
			return
		}

		err = fmt.Errorf("v1.HandleTicketQR -> h.svc.CheckID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	qrc, err := qrcode.New(order.UniqueID)
	if err != nil {
		err = fmt.Errorf("v1.HandleTicketQR -> qrcode.New -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Header("Content-Type", "image/jpeg")
	if err := qrc.SaveTo(ctx.Writer); err != nil {
		err = fmt.Errorf("v1.HandleTicketQR -> qrc.SaveTo -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func orderItemsFromRequest(items []request.OrderItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.OrderItem{
			Name:  it.Name,
			Price: it.Price,
		})
	}

	return out
}
