package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/internal/util"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "list_orders_error", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.OrderPageSize)

	orders, total, err := h.Svc.ListOrders(ctx, uid, offset, limit)
	if err != nil {
		return writeError(c, l, "list_orders_error", err, nil)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": transport.NewOrderViews(orders),
		"meta": util.Meta(page, limit, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "get_order_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "get_order_error", "id is not a positive integer", err)
	}

	o, err := h.Svc.GetOrder(ctx, uid, id)
	if err != nil {
		return writeError(c, l, "get_order_error", err, messages{
			http.StatusForbidden: "Unauthorized.",
			http.StatusNotFound:  "Order not found.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": transport.NewOrderView(o)})
}
