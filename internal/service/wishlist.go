package service

import (
	"context"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
)

type WishlistService struct {
	Repo *repo.GormRepo
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	return s.Repo.ListWishlist(ctx, userID)
}

// Toggle reports true when the product was added and false when it was removed.
func (s *WishlistService) Toggle(ctx context.Context, userID, productID uint) (bool, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return false, notFound(err, "product")
	}
	return s.Repo.ToggleWishlist(ctx, userID, productID)
}

func (s *WishlistService) MoveToCart(ctx context.Context, userID, itemID uint) (*models.CartLine, error) {
	line, err := s.Repo.MoveWishlistToCart(ctx, userID, itemID)
	if err != nil {
		return nil, notFound(err, "wishlist item")
	}
	return line, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, itemID uint) error {
	if err := s.Repo.DeleteWishlistItem(ctx, userID, itemID); err != nil {
		return notFound(err, "wishlist item")
	}
	return nil
}
