package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// CartLinesByIDs loads the user's lines among ids together with product and vendor.
func (r *GormRepo) CartLinesByIDs(ctx context.Context, userID uint, ids []uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.DB.WithContext(ctx).
		Preload("Product.Vendor").
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("id ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) AddToCart(ctx context.Context, line *models.CartLine) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return addToCart(tx, line)
	})
}

// addToCart increments an existing (user, product) line or creates it.
func addToCart(tx *gorm.DB, line *models.CartLine) error {
	res := tx.Model(&models.CartLine{}).
		Where("user_id = ? AND product_id = ?", line.UserID, line.ProductID).
		Update("quantity", gorm.Expr("quantity + ?", line.Quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return tx.Where("user_id = ? AND product_id = ?", line.UserID, line.ProductID).First(line).Error
	}
	return tx.Omit("Product").Create(line).Error
}

func (r *GormRepo) UpdateCartQuantity(ctx context.Context, userID, lineID uint, qty int) (*models.CartLine, error) {
	var line models.CartLine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartLine{}).
			Where("id = ? AND user_id = ?", lineID, userID).
			Update("quantity", qty)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Preload("Product").First(&line, lineID).Error
	})
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *GormRepo) DeleteCartLine(ctx context.Context, userID, lineID uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", lineID, userID).Delete(&models.CartLine{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteCartLines(ctx context.Context, userID uint, ids []uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}
