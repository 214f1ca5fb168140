package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/models"
)

func (r *GormRepo) CreateParentOrder(ctx context.Context, o *models.ParentOrder) error {
	return r.DB.WithContext(ctx).Omit("User", "VendorOrders").Create(o).Error
}

// CreateVendorOrder inserts the vendor order and then its items.
func (r *GormRepo) CreateVendorOrder(ctx context.Context, vo *models.VendorOrder) error {
	db := r.DB.WithContext(ctx)
	if err := db.Omit("Vendor", "ParentOrder", "Items").Create(vo).Error; err != nil {
		return err
	}
	for i := range vo.Items {
		vo.Items[i].VendorOrderID = vo.ID
	}
	if len(vo.Items) == 0 {
		return nil
	}
	return db.Omit("Product").Create(&vo.Items).Error
}

func (r *GormRepo) SetGatewayToken(ctx context.Context, orderID uint, token string) error {
	return r.DB.WithContext(ctx).Model(&models.ParentOrder{}).
		Where("id = ?", orderID).
		Update("gateway_token", token).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.ParentOrder, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.ParentOrder{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.ParentOrder
	if err := q.
		Preload("VendorOrders", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("VendorOrders.Vendor").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetOrder loads a parent order with vendor orders, their items and products.
func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.ParentOrder, error) {
	var o models.ParentOrder
	if err := r.DB.WithContext(ctx).
		Preload("VendorOrders", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("VendorOrders.Vendor").
		Preload("VendorOrders.Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("VendorOrders.Items.Product").
		First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) LockParentOrder(ctx context.Context, id uint) (*models.ParentOrder, error) {
	var o models.ParentOrder
	if err := r.forUpdate(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	return r.DB.WithContext(ctx).Model(&models.ParentOrder{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

func (r *GormRepo) ItemsForParentOrder(ctx context.Context, parentID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).
		Joins("JOIN vendor_orders ON vendor_orders.id = order_items.vendor_order_id").
		Where("vendor_orders.parent_order_id = ?", parentID).
		Order("order_items.id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListVendorOrders(ctx context.Context, vendorID uint, offset, limit int) ([]models.VendorOrder, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.VendorOrder{}).Where("vendor_id = ?", vendorID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.VendorOrder
	if err := q.
		Preload("Items.Product").
		Preload("ParentOrder.User").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormRepo) GetVendorOrder(ctx context.Context, vendorID, id uint) (*models.VendorOrder, error) {
	var vo models.VendorOrder
	if err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Preload("ParentOrder.User").
		Where("vendor_id = ?", vendorID).
		First(&vo, id).Error; err != nil {
		return nil, err
	}
	return &vo, nil
}

func (r *GormRepo) LockVendorOrder(ctx context.Context, vendorID, id uint) (*models.VendorOrder, error) {
	var vo models.VendorOrder
	if err := r.forUpdate(ctx).Where("vendor_id = ?", vendorID).First(&vo, id).Error; err != nil {
		return nil, err
	}
	return &vo, nil
}

func (r *GormRepo) UpdateShippingStatus(ctx context.Context, id uint, status models.ShippingStatus) error {
	return r.DB.WithContext(ctx).Model(&models.VendorOrder{}).
		Where("id = ?", id).
		Update("shipping_status", status).Error
}
