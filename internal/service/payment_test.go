package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/gateway"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo/repotest"
)

func signed(orderID uint, transactionStatus string) Notification {
	ref := strconv.FormatUint(uint64(orderID), 10)
	n := Notification{
		OrderID:           ref,
		StatusCode:        "200",
		GrossAmount:       "150.00",
		TransactionStatus: transactionStatus,
	}
	n.SignatureKey = gateway.Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

func paymentStatus(t *testing.T, m *market, orderID uint) models.PaymentStatus {
	t.Helper()
	o, err := m.repo.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	return o.PaymentStatus
}

func TestCallbackSettlementMarksPaid(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	id := m.placeOrder(t)

	res, err := m.payments.HandleCallback(ctx, signed(id, gateway.StatusSettlement))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, models.PaymentPending, res.Previous)
	assert.Equal(t, models.PaymentPaid, res.Current)
	assert.Equal(t, models.PaymentPaid, paymentStatus(t, m, id))

	res, err = m.payments.HandleCallback(ctx, signed(id, gateway.StatusCapture))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, res.Outcome)

	assert.Equal(t, []string{"order_created", "payment_status_changed"}, m.events.types())
}

func TestCallbackFailureRestoresStockOnce(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	gdb := m.repo.DB
	id := m.placeOrder(t)

	require.Equal(t, 4, repotest.Stock(t, gdb, m.shoes.ID))
	require.Equal(t, 2, repotest.Stock(t, gdb, m.hat.ID))

	res, err := m.payments.HandleCallback(ctx, signed(id, gateway.StatusExpire))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, res.Outcome)
	assert.Equal(t, 2, res.RestoredItems)
	assert.Equal(t, models.PaymentFailed, paymentStatus(t, m, id))
	assert.Equal(t, 5, repotest.Stock(t, gdb, m.shoes.ID))
	assert.Equal(t, 3, repotest.Stock(t, gdb, m.hat.ID))

	for _, status := range []string{gateway.StatusExpire, gateway.StatusCancel, gateway.StatusDeny} {
		res, err = m.payments.HandleCallback(ctx, signed(id, status))
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, res.Outcome, status)
	}
	assert.Equal(t, 5, repotest.Stock(t, gdb, m.shoes.ID))
	assert.Equal(t, 3, repotest.Stock(t, gdb, m.hat.ID))
}

func TestCallbackDisallowedTransitionIsAcknowledged(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	id := m.placeOrder(t)

	_, err := m.payments.HandleCallback(ctx, signed(id, gateway.StatusDeny))
	require.NoError(t, err)

	res, err := m.payments.HandleCallback(ctx, signed(id, gateway.StatusSettlement))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, models.PaymentFailed, res.Current)
	assert.Equal(t, models.PaymentFailed, paymentStatus(t, m, id))
	assert.Equal(t, 5, repotest.Stock(t, m.repo.DB, m.shoes.ID))
}

func TestCallbackPaidOrderKeepsStockOnFailure(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	id := m.placeOrder(t)

	_, err := m.payments.HandleCallback(ctx, signed(id, gateway.StatusSettlement))
	require.NoError(t, err)

	res, err := m.payments.HandleCallback(ctx, signed(id, gateway.StatusExpire))
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, models.PaymentPaid, paymentStatus(t, m, id))
	assert.Equal(t, 4, repotest.Stock(t, m.repo.DB, m.shoes.ID))
}

func TestCallbackUnknownStatusIsIgnored(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	id := m.placeOrder(t)

	res, err := m.payments.HandleCallback(context.Background(), signed(id, "refund"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)
	assert.Equal(t, models.PaymentPending, paymentStatus(t, m, id))
}

func TestCallbackRejectsBadSignature(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	id := m.placeOrder(t)

	tampered := []func(n *Notification){
		func(n *Notification) { n.GrossAmount = "1.00" },
		func(n *Notification) { n.StatusCode = "201" },
		func(n *Notification) { n.SignatureKey = "" },
		func(n *Notification) { n.SignatureKey = gateway.Signature(n.OrderID, n.StatusCode, n.GrossAmount, "other-key") },
	}
	for _, mutate := range tampered {
		n := signed(id, gateway.StatusSettlement)
		mutate(&n)
		_, err := m.payments.HandleCallback(ctx, n)
		require.ErrorIs(t, err, ErrInvalidSignature)
	}

	assert.Equal(t, models.PaymentPending, paymentStatus(t, m, id))
	assert.Equal(t, 4, repotest.Stock(t, m.repo.DB, m.shoes.ID))
}

func TestCallbackUnknownOrder(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()

	_, err := m.payments.HandleCallback(ctx, signed(424242, gateway.StatusSettlement))
	require.ErrorIs(t, err, ErrNotFound)

	n := Notification{OrderID: "ORDER-abc", StatusCode: "200", GrossAmount: "10.00", TransactionStatus: gateway.StatusSettlement}
	n.SignatureKey = gateway.Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	_, err = m.payments.HandleCallback(ctx, n)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCallbackSkipsDeletedProducts(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	id := m.placeOrder(t)

	require.NoError(t, m.repo.DB.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, m.repo.DB.Delete(&models.Product{}, m.hat.ID).Error)

	res, err := m.payments.HandleCallback(context.Background(), signed(id, gateway.StatusCancel))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RestoredItems)
	assert.Equal(t, 5, repotest.Stock(t, m.repo.DB, m.shoes.ID))
	assert.Equal(t, models.PaymentFailed, paymentStatus(t, m, id))
}
