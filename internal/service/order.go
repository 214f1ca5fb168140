package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.ParentOrder, int64, error) {
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}

// GetOrder returns the full order tree. An order that exists but belongs to
// someone else yields ErrForbidden and never the order itself.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*models.ParentOrder, error) {
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("%w: order %d", ErrForbidden, orderID)
	}
	return o, nil
}

type VendorOrderService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

func (s *VendorOrderService) ListVendorOrders(ctx context.Context, userID uint, offset, limit int) ([]models.VendorOrder, int64, error) {
	v, err := vendorForUser(ctx, s.Repo, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.ListVendorOrders(ctx, v.ID, offset, limit)
}

func (s *VendorOrderService) GetVendorOrder(ctx context.Context, userID, vendorOrderID uint) (*models.VendorOrder, error) {
	v, err := vendorForUser(ctx, s.Repo, userID)
	if err != nil {
		return nil, err
	}
	vo, err := s.Repo.GetVendorOrder(ctx, v.ID, vendorOrderID)
	if err != nil {
		return nil, notFound(err, "vendor order")
	}
	return vo, nil
}

// UpdateShippingStatus moves a vendor order along the shipping state machine.
// Unknown statuses fail validation; disallowed moves fail with ErrConflict.
func (s *VendorOrderService) UpdateShippingStatus(ctx context.Context, userID, vendorOrderID uint, status string) (*models.VendorOrder, error) {
	next, err := models.ParseShippingStatus(status)
	if err != nil {
		return nil, invalid("status", "must be one of pending, processing, shipped, delivered, cancelled")
	}

	v, err := vendorForUser(ctx, s.Repo, userID)
	if err != nil {
		return nil, err
	}

	var prev models.ShippingStatus
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		vo, err := tx.LockVendorOrder(ctx, v.ID, vendorOrderID)
		if err != nil {
			return notFound(err, "vendor order")
		}
		prev = vo.ShippingStatus
		if !prev.CanTransitionTo(next) {
			return fmt.Errorf("%w: cannot move shipping status from %s to %s", ErrConflict, prev, next)
		}
		if prev == next {
			return nil
		}
		return tx.UpdateShippingStatus(ctx, vo.ID, next)
	})
	if err != nil {
		return nil, err
	}

	if prev != next {
		publish(ctx, s.Events, TopicOrders, strconv.FormatUint(uint64(vendorOrderID), 10), map[string]any{
			"type":          "shipping_status_changed",
			"vendorOrderID": vendorOrderID,
			"vendorID":      v.ID,
			"from":          prev,
			"to":            next,
		})
	}

	vo, err := s.Repo.GetVendorOrder(ctx, v.ID, vendorOrderID)
	if err != nil {
		return nil, notFound(err, "vendor order")
	}
	return vo, nil
}
