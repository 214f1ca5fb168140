package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/gateway"
	"github.com/Skotchmaster/marketplace/internal/metrics"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

// Notification is the payment status webhook as delivered by the gateway.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
}

type CallbackOutcome string

const (
	// OutcomeUpdated means the payment status changed.
	OutcomeUpdated CallbackOutcome = "updated"
	// OutcomeDuplicate means the order already had the reported status.
	OutcomeDuplicate CallbackOutcome = "duplicate"
	// OutcomeIgnored means the transaction status has no mapping.
	OutcomeIgnored CallbackOutcome = "ignored"
	// OutcomeRejected means the transition is not allowed, e.g. failed -> paid.
	OutcomeRejected CallbackOutcome = "rejected"
)

type CallbackResult struct {
	OrderID       uint
	Previous      models.PaymentStatus
	Current       models.PaymentStatus
	Outcome       CallbackOutcome
	RestoredItems int
}

type PaymentService struct {
	Repo      *repo.GormRepo
	ServerKey string
	Events    Publisher
	Metrics   *metrics.Domain
}

// HandleCallback verifies the notification signature and applies the mapped
// payment status under a row lock on the parent order. Stock is restored only
// on the transition into failed, so replays change nothing.
func (s *PaymentService) HandleCallback(ctx context.Context, n Notification) (*CallbackResult, error) {
	l := logging.FromContext(ctx).With("svc", "payment.callback", "order_ref", n.OrderID, "transaction_status", n.TransactionStatus)

	target, mapped := gateway.PaymentStatusFor(n.TransactionStatus)
	statusLabel := n.TransactionStatus
	if !mapped {
		statusLabel = "other"
	}

	if !gateway.VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, s.ServerKey, n.SignatureKey) {
		l.Warn("callback_invalid_signature")
		s.Metrics.Callback(statusLabel, "invalid_signature")
		return nil, ErrInvalidSignature
	}

	orderID, err := strconv.ParseUint(n.OrderID, 10, 64)
	if err != nil || orderID == 0 {
		s.Metrics.Callback(statusLabel, "not_found")
		return nil, fmt.Errorf("%w: order %q", ErrNotFound, n.OrderID)
	}

	res := &CallbackResult{OrderID: uint(orderID)}
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.LockParentOrder(ctx, uint(orderID))
		if err != nil {
			return notFound(err, "order")
		}
		res.Previous, res.Current = order.PaymentStatus, order.PaymentStatus

		switch {
		case !mapped:
			res.Outcome = OutcomeIgnored
			return nil
		case order.PaymentStatus == target:
			res.Outcome = OutcomeDuplicate
			return nil
		case !order.PaymentStatus.CanTransitionTo(target):
			res.Outcome = OutcomeRejected
			return nil
		}

		if target == models.PaymentFailed {
			restored, err := restoreStock(ctx, tx, order.ID)
			if err != nil {
				return err
			}
			res.RestoredItems = restored
		}

		if err := tx.UpdatePaymentStatus(ctx, order.ID, target); err != nil {
			return err
		}
		res.Current = target
		res.Outcome = OutcomeUpdated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.Metrics.Callback(statusLabel, "not_found")
		} else {
			s.Metrics.Callback(statusLabel, "error")
		}
		return nil, err
	}

	s.Metrics.Callback(statusLabel, string(res.Outcome))
	switch res.Outcome {
	case OutcomeUpdated:
		l.Info("callback_applied", "from", res.Previous, "to", res.Current, "restored_items", res.RestoredItems)
		publish(ctx, s.Events, TopicOrders, n.OrderID, map[string]any{
			"type":          "payment_status_changed",
			"orderID":       res.OrderID,
			"from":          res.Previous,
			"to":            res.Current,
			"restoredItems": res.RestoredItems,
		})
	case OutcomeIgnored:
		l.Warn("callback_ignored", "reason", "unhandled transaction status", "payment_status", res.Current)
	case OutcomeRejected:
		l.Warn("callback_ignored", "reason", "transition not allowed", "from", res.Previous, "to", target)
	default:
		l.Info("callback_duplicate", "payment_status", res.Current)
	}
	return res, nil
}

// restoreStock gives back the quantity of every item under the parent order.
// Items whose product no longer exists are skipped.
func restoreStock(ctx context.Context, tx *repo.GormRepo, parentID uint) (int, error) {
	items, err := tx.ItemsForParentOrder(ctx, parentID)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, it := range items {
		err := tx.RestoreStock(ctx, it.ProductID, it.Quantity)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logging.FromContext(ctx).Warn("restore_stock_skipped", "product_id", it.ProductID, "reason", "product missing")
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("restore stock for product %d: %w", it.ProductID, err)
		}
		restored++
	}
	return restored, nil
}
