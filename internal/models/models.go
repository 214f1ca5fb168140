package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name         string    `gorm:"size:255;not null"            json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                     json:"-"`
	PhoneNumber  string    `gorm:"size:32"                      json:"phone_number,omitempty"`
	Address      string    `gorm:"type:text"                    json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Vendor struct {
	ID               uint            `gorm:"primaryKey;autoIncrement"          json:"id"`
	UserID           uint            `gorm:"uniqueIndex;not null"              json:"user_id"`
	StoreName        string          `gorm:"size:255;not null"                 json:"store_name"`
	StoreDescription string          `gorm:"type:text"                         json:"store_description,omitempty"`
	CommissionRate   decimal.Decimal `gorm:"type:numeric(5,2);not null"        json:"commission_rate"`
	Balance          decimal.Decimal `gorm:"type:numeric(12,2);not null"       json:"balance"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	VendorID      uint            `gorm:"index;not null"              json:"vendor_id"`
	Title         string          `gorm:"size:255;not null"           json:"title"`
	Description   string          `gorm:"type:text"                   json:"description,omitempty"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	StockQuantity int             `gorm:"not null;default:0"          json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Vendor *Vendor `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

type CartLine struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                           json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product;not null"         json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null"         json:"product_id"`
	Quantity  int       `gorm:"not null;default:1;check:quantity>0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartLine) TableName() string {
	return "cart_lines"
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                       json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_wishlist_user_product;not null" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// ParentOrder is one checkout by one buyer; TotalAmount equals the sum of its
// vendor orders' OrderTotal at creation.
type ParentOrder struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"                json:"id"`
	UserID        uint            `gorm:"index;not null"                          json:"user_id"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"             json:"total_amount"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(16);not null;default:pending" json:"payment_status"`
	GatewayToken  string          `gorm:"size:255"                                json:"gateway_token,omitempty"`
	CreatedAt     time.Time       `gorm:"index"                                   json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	User         *User         `gorm:"foreignKey:UserID"        json:"-"`
	VendorOrders []VendorOrder `gorm:"foreignKey:ParentOrderID" json:"vendor_orders,omitempty"`
}

type VendorOrder struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"                json:"id"`
	ParentOrderID  uint            `gorm:"index;not null"                          json:"parent_order_id"`
	VendorID       uint            `gorm:"index;not null"                          json:"vendor_id"`
	OrderTotal     decimal.Decimal `gorm:"type:numeric(12,2);not null"             json:"order_total"`
	CommissionFee  decimal.Decimal `gorm:"type:numeric(12,2);not null"             json:"commission_fee"`
	NetAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null"             json:"net_amount"`
	ShippingStatus ShippingStatus  `gorm:"type:varchar(16);not null;default:pending" json:"shipping_status"`
	CreatedAt      time.Time       `gorm:"index"                                   json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Vendor      *Vendor      `gorm:"foreignKey:VendorID"      json:"vendor,omitempty"`
	ParentOrder *ParentOrder `gorm:"foreignKey:ParentOrderID" json:"parent_order,omitempty"`
	Items       []OrderItem  `gorm:"foreignKey:VendorOrderID" json:"items,omitempty"`
}

// OrderItem snapshots quantity and price at purchase time and is never updated.
type OrderItem struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	VendorOrderID uint            `gorm:"index;not null"              json:"vendor_order_id"`
	ProductID     uint            `gorm:"index;not null"              json:"product_id"`
	Quantity      int             `gorm:"not null"                    json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// All lists every table in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Vendor{},
		&Product{},
		&CartLine{},
		&WishlistItem{},
		&ParentOrder{},
		&VendorOrder{},
		&OrderItem{},
	}
}
