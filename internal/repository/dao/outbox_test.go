package dao

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentSeq int

func nextPaymentID() string {
	paymentSeq++
	return fmt.Sprintf("pay_test_%04d", paymentSeq)
}

func insertPendingRecord(t *testing.T, d *OutboxDAO) PaymentRecord {
	t.Helper()

	record, err := d.Insert(context.Background(), PaymentRecord{
		Reference:    "ref-" + nextCode(),
		PaymentID:    nextPaymentID(),
		GatewayOrder: "order_test",
		ItemsJSON:    `[{"name":"Pass","price":500}]`,
	})
	require.NoError(t, err)
	require.Equal(t, "pending", record.State)

	return record
}

func TestOutboxDAO_Insert_DuplicatePaymentID(t *testing.T) {
	ctx := context.Background()
	d := NewOutboxDAO(testDB)

	record := insertPendingRecord(t, d)

	_, err := d.Insert(ctx, PaymentRecord{
		Reference:    "ref-other",
		PaymentID:    record.PaymentID,
		GatewayOrder: "order_test",
		ItemsJSON:    "[]",
	})
	assert.ErrorIs(t, err, ErrPaymentRecordExists)
}

func TestOutboxDAO_RecordOrder(t *testing.T) {
	ctx := context.Background()
	d := NewOutboxDAO(testDB)
	orders := NewOrderDAO(testDB)

	record := insertPendingRecord(t, d)

	code := nextCode()
	created, err := d.RecordOrder(ctx, record.ID, Order{
		UniqueID:      code,
		Status:        "unused",
		Items:         []OrderItem{{Name: "Pass", Price: 500}},
		TotalAmount:   500,
		TransactionID: record.PaymentID,
	})
	require.NoError(t, err)
	assert.Equal(t, code, created.UniqueID)

	stored, err := orders.FindByUniqueID(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, record.PaymentID, stored.TransactionID)

	flipped, err := d.FindByPaymentID(ctx, record.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, "recorded", flipped.State)
	assert.Equal(t, code, flipped.OrderUniqueID)
}

// A colliding order code must roll the whole transaction back: no order row
// and the outbox record still pending.
func TestOutboxDAO_RecordOrder_CollidingCodeRollsBack(t *testing.T) {
	ctx := context.Background()
	d := NewOutboxDAO(testDB)
	orders := NewOrderDAO(testDB)

	taken := nextCode()
	_, err := orders.Insert(ctx, Order{UniqueID: taken, Status: "unused"})
	require.NoError(t, err)

	record := insertPendingRecord(t, d)

	_, err = d.RecordOrder(ctx, record.ID, Order{UniqueID: taken, Status: "unused"})
	assert.ErrorIs(t, err, ErrOrderCodeExists)

	still, err := d.FindByPaymentID(ctx, record.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, "pending", still.State)
}

func TestOutboxDAO_RecordOrder_AlreadyRecorded(t *testing.T) {
	ctx := context.Background()
	d := NewOutboxDAO(testDB)

	record := insertPendingRecord(t, d)

	_, err := d.RecordOrder(ctx, record.ID, Order{UniqueID: nextCode(), Status: "unused"})
	require.NoError(t, err)

	_, err = d.RecordOrder(ctx, record.ID, Order{UniqueID: nextCode(), Status: "unused"})
	assert.ErrorIs(t, err, ErrPaymentRecordNotFound)
}

func TestOutboxDAO_FindPendingAndMarkAttempt(t *testing.T) {
	ctx := context.Background()
	d := NewOutboxDAO(testDB)

	record := insertPendingRecord(t, d)

	pending, err := d.FindPending(ctx, 100)
	require.NoError(t, err)

	var found bool
	for _, r := range pending {
		if r.PaymentID == record.PaymentID {
			found = true
		}
	}
	assert.True(t, found)

	require.NoError(t, d.MarkAttempt(ctx, record.ID, "connection reset"))
	require.NoError(t, d.MarkAttempt(ctx, record.ID, "connection reset again"))

	updated, err := d.FindByPaymentID(ctx, record.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Attempts)
	assert.Equal(t, "connection reset again", updated.LastError)
}
