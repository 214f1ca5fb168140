package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
)

func (r *GormRepo) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ToggleWishlist removes the (user, product) entry when present and creates it
// otherwise. It reports whether the product ended up in the wishlist.
func (r *GormRepo) ToggleWishlist(ctx context.Context, userID, productID uint) (bool, error) {
	added := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		added = true
		return tx.Create(&models.WishlistItem{UserID: userID, ProductID: productID}).Error
	})
	return added, err
}

func (r *GormRepo) DeleteWishlistItem(ctx context.Context, userID, itemID uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MoveWishlistToCart adds one unit of the wishlisted product to the cart and
// drops the wishlist entry in the same transaction.
func (r *GormRepo) MoveWishlistToCart(ctx context.Context, userID, itemID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.WishlistItem
		if err := tx.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
			return err
		}
		line = models.CartLine{UserID: userID, ProductID: item.ProductID, Quantity: 1}
		if err := addToCart(tx, &line); err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}
