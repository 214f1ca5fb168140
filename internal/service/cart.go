package service

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/money"
	"github.com/Skotchmaster/marketplace/internal/repo"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

type Cart struct {
	Lines      []models.CartLine
	GrandTotal decimal.Decimal
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	lines, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, ln := range lines {
		if ln.Product != nil {
			total = total.Add(money.LineTotal(ln.Product.Price, ln.Quantity))
		}
	}
	return &Cart{Lines: lines, GrandTotal: total}, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uint, quantity int) (*models.CartLine, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, notFound(err, "product")
	}

	line := &models.CartLine{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.Repo.AddToCart(ctx, line); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, TopicCart, strconv.FormatUint(uint64(userID), 10), map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  quantity,
	})
	return line, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, lineID uint, quantity int) (*models.CartLine, error) {
	line, err := s.Repo.UpdateCartQuantity(ctx, userID, lineID, quantity)
	if err != nil {
		return nil, notFound(err, "cart item")
	}
	return line, nil
}

func (s *CartService) RemoveLine(ctx context.Context, userID, lineID uint) error {
	if err := s.Repo.DeleteCartLine(ctx, userID, lineID); err != nil {
		return notFound(err, "cart item")
	}

	publish(ctx, s.Events, TopicCart, strconv.FormatUint(uint64(userID), 10), map[string]any{
		"type":       "cart_item_removed",
		"userID":     userID,
		"cartLineID": lineID,
	})
	return nil
}
