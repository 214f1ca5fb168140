package repo

import (
	"context"

	"github.com/Skotchmaster/marketplace/internal/models"
)

func (r *GormRepo) VendorByUser(ctx context.Context, userID uint) (*models.Vendor, error) {
	var v models.Vendor
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) CreateVendor(ctx context.Context, v *models.Vendor) error {
	return r.DB.WithContext(ctx).Create(v).Error
}
