package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/marketplace/internal/gateway"
	"github.com/Skotchmaster/marketplace/internal/metrics"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/money"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req gateway.TransactionRequest) (*gateway.Transaction, error)
}

type Locker interface {
	TryLock(ctx context.Context, key string) (unlock func(), ok bool, err error)
}

type CheckoutService struct {
	Repo           *repo.GormRepo
	Gateway        PaymentGateway
	Events         Publisher
	Locker         Locker
	Metrics        *metrics.Domain
	CommissionRate decimal.Decimal
	GatewayTimeout time.Duration
}

type CheckoutResult struct {
	OrderID      uint
	TotalAmount  decimal.Decimal
	GatewayToken string
	RedirectURL  string
	VendorOrders int
}

type pricedLine struct {
	line    models.CartLine
	product models.Product
}

type vendorGroup struct {
	vendorID uint
	lines    []pricedLine
	total    decimal.Decimal
}

// Checkout turns the selected cart lines into a parent order with one vendor
// order per vendor, reserves stock and obtains a gateway token. Everything runs
// in one transaction: on any error no order row survives, stock is untouched
// and the cart is left as it was.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, cartLineIDs []uint) (*CheckoutResult, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID)

	ids, err := normalizeIDs(cartLineIDs)
	if err != nil {
		s.Metrics.Checkout(checkoutResultLabel(err))
		return nil, err
	}

	if s.Locker != nil {
		unlock, ok, err := s.Locker.TryLock(ctx, "checkout:"+strconv.FormatUint(uint64(userID), 10))
		switch {
		case err != nil:
			l.Warn("checkout_lock_unavailable", "error", err)
		case !ok:
			s.Metrics.Checkout("conflict")
			return nil, fmt.Errorf("%w: checkout already in progress", ErrConflict)
		default:
			defer unlock()
		}
	}

	var res *CheckoutResult
	err = s.Repo.WithTx(ctx, func(tx *repo.GormRepo) error {
		r, err := s.checkout(ctx, tx, userID, ids)
		res = r
		return err
	})
	if err != nil {
		s.Metrics.Checkout(checkoutResultLabel(err))
		return nil, err
	}

	s.Metrics.Checkout("success")
	l.Info("checkout_success", "order_id", res.OrderID, "total", money.Format(res.TotalAmount), "vendor_orders", res.VendorOrders)

	publish(ctx, s.Events, TopicOrders, strconv.FormatUint(uint64(res.OrderID), 10), map[string]any{
		"type":         "order_created",
		"userID":       userID,
		"orderID":      res.OrderID,
		"total":        money.Format(res.TotalAmount),
		"vendorOrders": res.VendorOrders,
	})
	return res, nil
}

func (s *CheckoutService) checkout(ctx context.Context, tx *repo.GormRepo, userID uint, ids []uint) (*CheckoutResult, error) {
	lines, err := tx.CartLinesByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: none of the selected cart items exist", ErrEmptyCart)
	}
	if len(lines) != len(ids) {
		return nil, &ValidationError{Fields: map[string]string{
			"selected_cart_ids": fmt.Sprintf("cart items %v are not in your cart", missingIDs(ids, lines)),
		}}
	}

	buyer, err := tx.UserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	productIDs := make([]uint, 0, len(lines))
	for _, ln := range lines {
		productIDs = append(productIDs, ln.ProductID)
	}
	products, err := tx.LockProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	groups, total, err := groupByVendor(lines, products)
	if err != nil {
		return nil, err
	}

	parent := &models.ParentOrder{
		UserID:        userID,
		TotalAmount:   total,
		PaymentStatus: models.PaymentPending,
	}
	if err := tx.CreateParentOrder(ctx, parent); err != nil {
		return nil, err
	}

	for _, g := range groups {
		fee, net := money.CommissionSplit(g.total, s.CommissionRate)
		vo := &models.VendorOrder{
			ParentOrderID:  parent.ID,
			VendorID:       g.vendorID,
			OrderTotal:     g.total,
			CommissionFee:  fee,
			NetAmount:      net,
			ShippingStatus: models.ShippingPending,
			Items:          make([]models.OrderItem, 0, len(g.lines)),
		}
		for _, pl := range g.lines {
			vo.Items = append(vo.Items, models.OrderItem{
				ProductID: pl.product.ID,
				Quantity:  pl.line.Quantity,
				UnitPrice: pl.product.Price,
			})
		}
		if err := tx.CreateVendorOrder(ctx, vo); err != nil {
			return nil, err
		}

		for _, pl := range g.lines {
			ok, err := tx.DecrementStock(ctx, pl.product.ID, pl.line.Quantity)
			if err != nil {
				return nil, err
			}
			if !ok {
				serr := &StockError{
					ProductID: pl.product.ID,
					Title:     pl.product.Title,
					Requested: pl.line.Quantity,
				}
				if cur, err := tx.GetProduct(ctx, pl.product.ID); err == nil {
					serr.Available = cur.StockQuantity
				}
				return nil, serr
			}
		}
	}

	txn, err := s.requestToken(ctx, parent, buyer)
	if err != nil {
		return nil, err
	}
	if err := tx.SetGatewayToken(ctx, parent.ID, txn.Token); err != nil {
		return nil, err
	}

	deleted, err := tx.DeleteCartLines(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if deleted != int64(len(ids)) {
		return nil, fmt.Errorf("%w: cart changed during checkout", ErrConflict)
	}

	return &CheckoutResult{
		OrderID:      parent.ID,
		TotalAmount:  total,
		GatewayToken: txn.Token,
		RedirectURL:  txn.RedirectURL,
		VendorOrders: len(groups),
	}, nil
}

func (s *CheckoutService) requestToken(ctx context.Context, order *models.ParentOrder, buyer *models.User) (*gateway.Transaction, error) {
	if s.GatewayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.GatewayTimeout)
		defer cancel()
	}

	txn, err := s.Gateway.CreateTransaction(ctx, gateway.TransactionRequest{
		OrderID:     strconv.FormatUint(uint64(order.ID), 10),
		GrossAmount: money.GrossAmount(order.TotalAmount),
		FirstName:   buyer.Name,
		Email:       buyer.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentGateway, err)
	}
	return txn, nil
}

// groupByVendor prices every line from the locked product rows and partitions
// the lines by vendor, ordered by vendor id.
func groupByVendor(lines []models.CartLine, products map[uint]models.Product) ([]*vendorGroup, decimal.Decimal, error) {
	byVendor := make(map[uint]*vendorGroup)
	total := decimal.Zero

	for _, ln := range lines {
		p, ok := products[ln.ProductID]
		if !ok {
			return nil, decimal.Zero, invalid("selected_cart_ids", fmt.Sprintf("product %d is no longer available", ln.ProductID))
		}
		if p.StockQuantity < ln.Quantity {
			return nil, decimal.Zero, &StockError{
				ProductID: p.ID,
				Title:     p.Title,
				Requested: ln.Quantity,
				Available: p.StockQuantity,
			}
		}

		lineTotal := money.LineTotal(p.Price, ln.Quantity)
		g, ok := byVendor[p.VendorID]
		if !ok {
			g = &vendorGroup{vendorID: p.VendorID, total: decimal.Zero}
			byVendor[p.VendorID] = g
		}
		g.lines = append(g.lines, pricedLine{line: ln, product: p})
		g.total = g.total.Add(lineTotal)
		total = total.Add(lineTotal)
	}

	groups := make([]*vendorGroup, 0, len(byVendor))
	for _, g := range byVendor {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].vendorID < groups[j].vendorID })
	return groups, total, nil
}

func normalizeIDs(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, invalid("selected_cart_ids", "select at least one cart item")
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, invalid("selected_cart_ids", "cart item ids must be positive integers")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func missingIDs(ids []uint, lines []models.CartLine) []uint {
	found := make(map[uint]struct{}, len(lines))
	for _, ln := range lines {
		found[ln.ID] = struct{}{}
	}
	var missing []uint
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func checkoutResultLabel(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrPaymentGateway):
		return "gateway_error"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
