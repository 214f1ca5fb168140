package repo

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
)

type ProductFilter struct {
	Search   string
	VendorID uint
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	// Sort is "asc" or "desc" by price; anything else means newest first.
	Sort string
	// IDs restricts the result to these products when non-nil.
	IDs []uint

	Offset int
	Limit  int
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})

	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return []models.Product{}, 0, nil
		}
		q = q.Where("id IN ?", f.IDs)
	} else if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if f.VendorID != 0 {
		q = q.Where("vendor_id = ?", f.VendorID)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case "asc":
		q = q.Order("price ASC").Order("id ASC")
	case "desc":
		q = q.Order("price DESC").Order("id ASC")
	default:
		q = q.Order("created_at DESC").Order("id DESC")
	}

	var items []models.Product
	if err := q.Preload("Vendor").Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Vendor").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Vendor").Create(p).Error
}

// LockProducts locks the given product rows in ascending id order so that
// concurrent checkouts acquire them in the same sequence.
func (r *GormRepo) LockProducts(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var rows []models.Product
	if err := r.forUpdate(ctx).Where("id IN ?", sorted).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]models.Product, len(rows))
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// DecrementStock reports false when the product does not hold qty units.
func (r *GormRepo) DecrementStock(ctx context.Context, productID uint, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) RestoreStock(ctx context.Context, productID uint, qty int) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
