package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/marketplace/pkg/db"
	middleware "github.com/Skotchmaster/marketplace/pkg/middleware/auth"
	"github.com/Skotchmaster/marketplace/pkg/middleware/csrf"
)

type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte
	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool
	// Metrics serves /metrics when set.
	Metrics http.Handler

	AuthHandler     *AuthHTTP
	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	WishlistHandler *WishlistHTTP
	VendorHandler   *VendorHTTP
	CheckoutHandler *CheckoutHTTP
	OrderHandler    *OrderHTTP
	PaymentHandler  *PaymentHTTP
}

func Register(e *echo.Echo, d *Deps) {
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	authMW := middleware.NewAuthMiddleware(d.JWTSecret)

	v1 := e.Group("/api/v1")

	v1.POST("/auth/register", d.AuthHandler.Register)
	v1.POST("/auth/login", d.AuthHandler.Login)
	v1.POST("/auth/logout", d.AuthHandler.Logout)

	v1.GET("/products", d.CatalogHandler.GetProducts)
	v1.GET("/products/:id", d.CatalogHandler.GetProduct)

	v1.POST("/payments/callback", d.PaymentHandler.Callback)

	csrfMW := csrf.Middleware(csrf.Config{SessionCookie: accessCookie, Secure: d.SecureCookies})
	user := v1.Group("", authMW.RequireAuth, csrfMW)

	user.GET("/user", d.AuthHandler.Me)

	user.POST("/products", d.CatalogHandler.CreateProduct)

	user.GET("/cart", d.CartHandler.GetCart)
	user.POST("/cart", d.CartHandler.AddToCart)
	user.PATCH("/cart/:id", d.CartHandler.UpdateQuantity)
	user.DELETE("/cart/:id", d.CartHandler.RemoveLine)

	user.GET("/wishlist", d.WishlistHandler.List)
	user.POST("/wishlist/toggle", d.WishlistHandler.Toggle)
	user.POST("/wishlist/:id/move-to-cart", d.WishlistHandler.MoveToCart)
	user.DELETE("/wishlist/:id", d.WishlistHandler.Remove)

	user.POST("/vendors/register", d.VendorHandler.Register)

	user.POST("/checkout", d.CheckoutHandler.Checkout)

	user.GET("/orders", d.OrderHandler.ListOrders)
	user.GET("/orders/:id", d.OrderHandler.GetOrder)

	vendor := user.Group("/vendor")
	vendor.GET("/orders", d.VendorHandler.ListOrders)
	vendor.GET("/orders/:id", d.VendorHandler.GetOrder)
	vendor.PATCH("/orders/:id/status", d.VendorHandler.UpdateStatus)
}
