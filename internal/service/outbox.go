package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const reconcilerBatchSize = 25

// OutboxReconciler retries pending payment records until each one has a ledger
// entry. It closes the gap where a payment verifies but the ledger write fails.
type OutboxReconciler struct {
	outbox   PaymentOutboxRepository
	interval time.Duration
}

func NewOutboxReconciler(outbox PaymentOutboxRepository, interval time.Duration) *OutboxReconciler {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &OutboxReconciler{
		outbox:   outbox,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled.
func (r *OutboxReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

func (r *OutboxReconciler) reconcile(ctx context.Context) {
	records, err := r.outbox.FindPending(ctx, reconcilerBatchSize)
	if err != nil {
		zap.L().Error("failed to list pending payment records", zap.Error(err))
		return
	}

	for _, record := range records {
		order, err := recordLedgerEntry(ctx, r.outbox, record)
		if err != nil {
			zap.L().Error("failed to record pending payment",
				zap.String("paymentID", record.PaymentID),
				zap.Int("attempts", record.Attempts),
				zap.Error(err))
			continue
		}

		zap.L().Info("recovered pending payment",
			zap.String("paymentID", record.PaymentID),
			zap.String("uniqueID", order.UniqueID))
	}
}
