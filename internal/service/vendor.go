package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type VendorService struct {
	Repo *repo.GormRepo
	// CommissionPercent is stored on every newly registered vendor.
	CommissionPercent decimal.Decimal
}

func (s *VendorService) Register(ctx context.Context, userID uint, req transport.RegisterVendorRequest) (*models.Vendor, error) {
	_, err := s.Repo.VendorByUser(ctx, userID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: user is already a vendor", ErrConflict)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	v := &models.Vendor{
		UserID:           userID,
		StoreName:        strings.TrimSpace(req.StoreName),
		StoreDescription: strings.TrimSpace(req.StoreDescription),
		CommissionRate:   s.CommissionPercent,
		Balance:          decimal.Zero,
	}
	if err := s.Repo.CreateVendor(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// vendorForUser resolves the vendor owned by userID or fails with ErrForbidden.
func vendorForUser(ctx context.Context, r *repo.GormRepo, userID uint) (*models.Vendor, error) {
	v, err := r.VendorByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user is not a registered vendor", ErrForbidden)
		}
		return nil, err
	}
	return v, nil
}
