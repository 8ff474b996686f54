package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/festpass/festpass-api/internal/api/handler/v1/request"
	"github.com/festpass/festpass-api/internal/api/handler/v1/response"
	"github.com/festpass/festpass-api/internal/config"
	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/service"
)

type PaymentService interface {
	CreateGatewayOrder(ctx context.Context, amount int) (string, error)
	VerifyAndRecord(ctx context.Context, input service.VerifyPaymentInput) (domain.Order, error)
}

type PhonePeInitiator interface {
	InitiatePayment(ctx context.Context, amount int, transactionID, mobileNumber, callbackURL string) (string, error)
}

type PaymentsHandler struct {
	conf    *config.AppConfig
	svc     PaymentService
	phonePe PhonePeInitiator
}

func NewPaymentsHandler(conf *config.AppConfig, svc PaymentService, phonePe PhonePeInitiator) *PaymentsHandler {
	return &PaymentsHandler{
		conf:    conf,
		svc:     svc,
		phonePe: phonePe,
	}
}

// HandleCreateGatewayOrder godoc
// @Summary      Register a checkout amount with the payment gateway
// @Tags         payments
// @Produce      json
// @Param        request   body      request.CreateGatewayOrderRequest true "request body"
// @Success      200      {object}   response.CreateGatewayOrderResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /create-razorpay-order [post]
func (h *PaymentsHandler) HandleCreateGatewayOrder(ctx *gin.Context) {
	req := request.CreateGatewayOrderRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	orderID, err := h.svc.CreateGatewayOrder(ctx.Request.Context(), req.Amount)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateGatewayOrder -> h.svc.CreateGatewayOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.CreateGatewayOrderResponse{
		OrderID:  orderID,
		Amount:   req.Amount * 100,
		Currency: h.conf.Razorpay.Currency,
	})
}

// HandleVerifyPayment godoc
// @Summary      Verify a gateway callback and record the paid order
// @Tags         payments
// @Produce      json
// @Param        request   body      request.VerifyPaymentRequest true "request body"
// @Success      200      {object}   response.VerifyPaymentResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /verify-payment [post]
func (h *PaymentsHandler) HandleVerifyPayment(ctx *gin.Context) {
	req := request.VerifyPaymentRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.VerifyAndRecord(ctx.Request.Context(), service.VerifyPaymentInput{
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
		Items:          orderItemsFromRequest(req.Items),
		MobileNumber:   req.MobileNumber,
		Email:          req.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrSignatureMismatch) {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("Payment verification failed")))
			return
		}

		err = fmt.Errorf("v1.HandleVerifyPayment -> h.svc.VerifyAndRecord -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.VerifyPaymentResponse{
		Message:  "Payment verified",
		UniqueID: order.UniqueID,
	})
}

// HandlePhonePePay godoc
// @Summary      Start a PhonePe checkout and return its redirect URL
// @Tags         payments
// @Produce      json
// @Param        request   body      request.PhonePePayRequest true "request body"
// @Success      200      {object}   response.PhonePePayResponse
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /pay [post]
func (h *PaymentsHandler) HandlePhonePePay(ctx *gin.Context) {
	req := request.PhonePePayRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	transactionID := "MT" + uuid.NewString()
	callbackURL := h.conf.API.BaseURL + "/payment-status.html"

	redirectURL, err := h.phonePe.InitiatePayment(ctx.Request.Context(), req.Amount, transactionID, req.MobileNumber, callbackURL)
	if err != nil {
		err = fmt.Errorf("v1.HandlePhonePePay -> h.phonePe.InitiatePayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PhonePePayResponse{
		RedirectURL:   redirectURL,
		TransactionID: transactionID,
	})
}
