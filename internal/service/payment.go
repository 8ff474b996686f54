package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/festpass/festpass-api/internal/domain"
	"github.com/festpass/festpass-api/internal/gateway"
	"github.com/festpass/festpass-api/internal/mailer"
	"github.com/festpass/festpass-api/internal/repository"
)

var ErrSignatureMismatch = gateway.ErrSignatureMismatch

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) error
}

type PaymentOutboxRepository interface {
	Create(ctx context.Context, record domain.PaymentRecord) (domain.PaymentRecord, error)
	FindByPaymentID(ctx context.Context, paymentID string) (domain.PaymentRecord, error)
	FindPending(ctx context.Context, limit int) ([]domain.PaymentRecord, error)
	RecordOrder(ctx context.Context, recordID uint, order domain.Order) (domain.Order, error)
	MarkAttempt(ctx context.Context, recordID uint, attemptErr string) error
}

type PaymentService struct {
	gw     PaymentGateway
	outbox PaymentOutboxRepository
	orders OrderRepository
	mail   MailPublisher
}

func NewPaymentService(gw PaymentGateway, outbox PaymentOutboxRepository, orders OrderRepository, mail MailPublisher) *PaymentService {
	return &PaymentService{
		gw:     gw,
		outbox: outbox,
		orders: orders,
		mail:   mail,
	}
}

// CreateGatewayOrder registers the purchase with the gateway ahead of checkout.
func (s *PaymentService) CreateGatewayOrder(ctx context.Context, amount int) (string, error) {
	orderID, err := s.gw.CreateOrder(ctx, amount, "rcpt-"+uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("s.gw.CreateOrder -> %w", err)
	}

	return orderID, nil
}

type VerifyPaymentInput struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	Items          []domain.OrderItem
	MobileNumber   string
	Email          string
}

// VerifyAndRecord is the sole payment-backed path into the ledger. The durable
// outbox row is written before the ledger entry, so a verified payment whose
// ledger write fails is retried by the reconciler instead of being lost.
// Replayed callbacks for an already recorded payment return the existing order.
func (s *PaymentService) VerifyAndRecord(ctx context.Context, input VerifyPaymentInput) (domain.Order, error) {
	if err := s.gw.VerifySignature(input.GatewayOrderID, input.PaymentID, input.Signature); err != nil {
		return domain.Order{}, err
	}

	record, err := s.outbox.Create(ctx, domain.PaymentRecord{
		Reference:    uuid.NewString(),
		PaymentID:    input.PaymentID,
		GatewayOrder: input.GatewayOrderID,
		Items:        input.Items,
		MobileNumber: input.MobileNumber,
		Email:        input.Email,
	})
	if err != nil {
		if !errors.Is(err, repository.ErrPaymentRecordExists) {
			return domain.Order{}, fmt.Errorf("s.outbox.Create -> %w", err)
		}

		existing, findErr := s.outbox.FindByPaymentID(ctx, input.PaymentID)
		if findErr != nil {
			return domain.Order{}, fmt.Errorf("s.outbox.FindByPaymentID -> %w", findErr)
		}
		if existing.State == domain.PaymentRecordRecorded {
			order, orderErr := s.orders.FindByUniqueID(ctx, existing.OrderUniqueID)
			if orderErr != nil {
				return domain.Order{}, fmt.Errorf("s.orders.FindByUniqueID -> %w", orderErr)
			}

			return order, nil
		}

		record = existing
	}

	order, err := recordLedgerEntry(ctx, s.outbox, record)
	if err != nil {
		return domain.Order{}, err
	}

	s.sendConfirmation(order)

	return order, nil
}

func (s *PaymentService) sendConfirmation(order domain.Order) {
	if order.Email == "" || order.Email == "-" {
		return
	}

	// Best effort; the ticket exists either way.
	_ = s.mail.Publish(mailer.SendMailInput{
		To:      []string{order.Email},
		Subject: "Your FestPass ticket " + order.UniqueID,
		Body: fmt.Sprintf("Thank you for your purchase!\n\n"+
			"Your ticket code is %v. Show it (or its QR) at the entry counter.\n\n"+
			"Total paid: %d\n", order.UniqueID, order.TotalAmount),
	})
}

// recordLedgerEntry turns a pending outbox record into a ledger entry, retrying
// code collisions with fresh codes. Shared by the verify path and the reconciler.
func recordLedgerEntry(ctx context.Context, outbox PaymentOutboxRepository, record domain.PaymentRecord) (domain.Order, error) {
	order := domain.Order{
		Status:        domain.OrderUnused,
		Items:         record.Items,
		TotalAmount:   domain.TotalFromItems(record.Items),
		MobileNumber:  record.MobileNumber,
		Email:         record.Email,
		TransactionID: record.PaymentID,
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		order.UniqueID = newUniqueID()

		created, err := outbox.RecordOrder(ctx, record.ID, order)
		if err != nil {
			if errors.Is(err, repository.ErrOrderCodeExists) {
				continue
			}

			_ = outbox.MarkAttempt(ctx, record.ID, err.Error())

			return domain.Order{}, fmt.Errorf("outbox.RecordOrder -> %w", err)
		}

		return created, nil
	}

	_ = outbox.MarkAttempt(ctx, record.ID, ErrCodeSpaceExhausted.Error())

	return domain.Order{}, ErrCodeSpaceExhausted
}
