package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type WishlistHTTP struct {
	Svc *service.WishlistService
}

func (h *WishlistHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.list")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "wishlist_list_error", err)
	}

	items, err := h.Svc.List(ctx, uid)
	if err != nil {
		return writeError(c, l, "wishlist_list_error", err, nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": transport.NewWishlistViews(items)})
}

func (h *WishlistHTTP) Toggle(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.toggle")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "wishlist_toggle_error", err)
	}

	var req transport.ToggleWishlistRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "wishlist_toggle_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "wishlist_toggle_error", err, nil)
	}

	added, err := h.Svc.Toggle(ctx, uid, req.ProductID)
	if err != nil {
		return writeError(c, l, "wishlist_toggle_error", err, messages{http.StatusNotFound: "Product not found."})
	}

	status := "removed"
	if added {
		status = "added"
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}

func (h *WishlistHTTP) MoveToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.move_to_cart")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "wishlist_move_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "wishlist_move_error", "id is not a positive integer", err)
	}

	line, err := h.Svc.MoveToCart(ctx, uid, id)
	if err != nil {
		return writeError(c, l, "wishlist_move_error", err, messages{http.StatusNotFound: "Wishlist item not found."})
	}

	l.Info("wishlist_move_success", "wishlist_id", id, "cart_line_id", line.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product moved to cart.",
		"data":    transport.NewCartLineView(line),
	})
}

func (h *WishlistHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "wishlist_remove_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "wishlist_remove_error", "id is not a positive integer", err)
	}

	if err := h.Svc.Remove(ctx, uid, id); err != nil {
		return writeError(c, l, "wishlist_remove_error", err, messages{http.StatusNotFound: "Wishlist item not found."})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Item removed from wishlist."})
}
