package transport

import (
	"time"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/money"
)

type VendorView struct {
	ID        uint   `json:"id"`
	StoreName string `json:"store_name"`
}

type ProductView struct {
	ID            uint        `json:"id"`
	VendorID      uint        `json:"vendor_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Price         string      `json:"price"`
	StockQuantity int         `json:"stock_quantity"`
	Vendor        *VendorView `json:"vendor,omitempty"`
}

func NewVendorView(v *models.Vendor) *VendorView {
	if v == nil {
		return nil
	}
	return &VendorView{ID: v.ID, StoreName: v.StoreName}
}

func NewProductView(p *models.Product) *ProductView {
	if p == nil {
		return nil
	}
	return &ProductView{
		ID:            p.ID,
		VendorID:      p.VendorID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         money.Format(p.Price),
		StockQuantity: p.StockQuantity,
		Vendor:        NewVendorView(p.Vendor),
	}
}

func NewProductViews(ps []models.Product) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for i := range ps {
		out = append(out, *NewProductView(&ps[i]))
	}
	return out
}

type CartLineView struct {
	ID        uint         `json:"id"`
	ProductID uint         `json:"product_id"`
	Quantity  int          `json:"quantity"`
	Subtotal  string       `json:"subtotal,omitempty"`
	Product   *ProductView `json:"product,omitempty"`
}

func NewCartLineView(l *models.CartLine) CartLineView {
	v := CartLineView{
		ID:        l.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		Product:   NewProductView(l.Product),
	}
	if l.Product != nil {
		v.Subtotal = money.Format(money.LineTotal(l.Product.Price, l.Quantity))
	}
	return v
}

func NewCartLineViews(lines []models.CartLine) []CartLineView {
	out := make([]CartLineView, 0, len(lines))
	for i := range lines {
		out = append(out, NewCartLineView(&lines[i]))
	}
	return out
}

type WishlistItemView struct {
	ID        uint         `json:"id"`
	ProductID uint         `json:"product_id"`
	Product   *ProductView `json:"product,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewWishlistViews(items []models.WishlistItem) []WishlistItemView {
	out := make([]WishlistItemView, 0, len(items))
	for i := range items {
		out = append(out, WishlistItemView{
			ID:        items[i].ID,
			ProductID: items[i].ProductID,
			Product:   NewProductView(items[i].Product),
			CreatedAt: items[i].CreatedAt,
		})
	}
	return out
}

type OrderItemView struct {
	ID        uint         `json:"id"`
	ProductID uint         `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice string       `json:"unit_price"`
	Subtotal  string       `json:"subtotal"`
	Product   *ProductView `json:"product,omitempty"`
}

type OrderTotalsView struct {
	OrderTotal    string `json:"order_total"`
	CommissionFee string `json:"commission_fee"`
	NetAmount     string `json:"net_amount"`
}

type BuyerView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserView(u *models.User, role string) UserView {
	return UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Role:        role,
		CreatedAt:   u.CreatedAt,
	}
}

type VendorOrderView struct {
	ID             uint            `json:"id"`
	ParentOrderID  uint            `json:"parent_order_id"`
	VendorID       uint            `json:"vendor_id"`
	Vendor         *VendorView     `json:"vendor,omitempty"`
	ShippingStatus string          `json:"shipping_status"`
	PaymentStatus  string          `json:"payment_status,omitempty"`
	Totals         OrderTotalsView `json:"totals"`
	Buyer          *BuyerView      `json:"buyer,omitempty"`
	Items          []OrderItemView `json:"items,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func NewVendorOrderView(vo *models.VendorOrder) VendorOrderView {
	v := VendorOrderView{
		ID:             vo.ID,
		ParentOrderID:  vo.ParentOrderID,
		VendorID:       vo.VendorID,
		Vendor:         NewVendorView(vo.Vendor),
		ShippingStatus: string(vo.ShippingStatus),
		Totals: OrderTotalsView{
			OrderTotal:    money.Format(vo.OrderTotal),
			CommissionFee: money.Format(vo.CommissionFee),
			NetAmount:     money.Format(vo.NetAmount),
		},
		CreatedAt: vo.CreatedAt,
	}
	if vo.ParentOrder != nil {
		v.PaymentStatus = string(vo.ParentOrder.PaymentStatus)
		if u := vo.ParentOrder.User; u != nil {
			v.Buyer = &BuyerView{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	for i := range vo.Items {
		it := &vo.Items[i]
		v.Items = append(v.Items, OrderItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: money.Format(it.UnitPrice),
			Subtotal:  money.Format(it.Subtotal()),
			Product:   NewProductView(it.Product),
		})
	}
	return v
}

func NewVendorOrderViews(vos []models.VendorOrder) []VendorOrderView {
	out := make([]VendorOrderView, 0, len(vos))
	for i := range vos {
		out = append(out, NewVendorOrderView(&vos[i]))
	}
	return out
}

type OrderView struct {
	ID              uint              `json:"id"`
	TotalAmount     string            `json:"total_amount"`
	PaymentStatus   string            `json:"payment_status"`
	GatewayToken    string            `json:"gateway_token,omitempty"`
	VendorShipments []VendorOrderView `json:"vendor_shipments"`
	CreatedAt       time.Time         `json:"created_at"`
}

func NewOrderView(o *models.ParentOrder) OrderView {
	return OrderView{
		ID:              o.ID,
		TotalAmount:     money.Format(o.TotalAmount),
		PaymentStatus:   string(o.PaymentStatus),
		GatewayToken:    o.GatewayToken,
		VendorShipments: NewVendorOrderViews(o.VendorOrders),
		CreatedAt:       o.CreatedAt,
	}
}

func NewOrderViews(orders []models.ParentOrder) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderView(&orders[i]))
	}
	return out
}
