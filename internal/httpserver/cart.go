package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/money"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

var cartMessages = messages{http.StatusNotFound: "Cart item not found."}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "get_cart_error", err)
	}

	cart, err := h.Svc.GetCart(ctx, uid)
	if err != nil {
		return writeError(c, l, "get_cart_error", err, nil)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":      "success",
		"data":        transport.NewCartLineViews(cart.Lines),
		"grand_total": money.Format(cart.GrandTotal),
	})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "add_to_cart_error", err)
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "add_to_cart_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "add_to_cart_error", err, nil)
	}

	line, err := h.Svc.AddToCart(ctx, uid, req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, l, "add_to_cart_error", err, messages{http.StatusNotFound: "Product not found."})
	}

	l.Info("add_to_cart_success", "cart_line_id", line.ID, "product_id", line.ProductID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product added to cart.",
		"data":    transport.NewCartLineView(line),
	})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "update_cart_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "update_cart_error", "id is not a positive integer", err)
	}

	var req transport.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "update_cart_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "update_cart_error", err, nil)
	}

	line, err := h.Svc.UpdateQuantity(ctx, uid, id, req.Quantity)
	if err != nil {
		return writeError(c, l, "update_cart_error", err, cartMessages)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Cart updated.",
		"data":    transport.NewCartLineView(line),
	})
}

func (h *CartHTTP) RemoveLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "remove_cart_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "remove_cart_error", "id is not a positive integer", err)
	}

	if err := h.Svc.RemoveLine(ctx, uid, id); err != nil {
		return writeError(c, l, "remove_cart_error", err, cartMessages)
	}

	l.Info("remove_cart_success", "cart_line_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Item removed from cart."})
}
