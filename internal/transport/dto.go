package transport

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Name        string `json:"name"         validate:"required,notblank,max=255"`
	Email       string `json:"email"        validate:"required,email,max=255"`
	Password    string `json:"password"     validate:"required,min=8,max=72"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
	Address     string `json:"address"      validate:"omitempty,max=1000"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateProductRequest struct {
	Title         string           `json:"title"          validate:"required,notblank,max=255"`
	Description   string           `json:"description"    validate:"max=5000"`
	Price         *decimal.Decimal `json:"price"          validate:"required,gte=0"`
	StockQuantity *int             `json:"stock_quantity" validate:"required,gte=0"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"min=1"`
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type ToggleWishlistRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
}

type RegisterVendorRequest struct {
	StoreName        string `json:"store_name"        validate:"required,notblank,max=255"`
	StoreDescription string `json:"store_description" validate:"max=5000"`
}

type CheckoutRequest struct {
	SelectedCartIDs []uint `json:"selected_cart_ids" validate:"required,min=1,dive,gt=0"`
}

type UpdateShippingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}
