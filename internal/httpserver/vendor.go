package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/internal/util"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type VendorHTTP struct {
	Svc    *service.VendorService
	Orders *service.VendorOrderService
}

var vendorMessages = messages{
	http.StatusForbidden: "User is not a registered vendor.",
	http.StatusNotFound:  "Order not found or unauthorized.",
}

func (h *VendorHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.register")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "vendor_register_error", err)
	}

	var req transport.RegisterVendorRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "vendor_register_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "vendor_register_error", err, nil)
	}

	v, err := h.Svc.Register(ctx, uid, req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			return badRequest(c, l, "vendor_register_error", "User is already a vendor.", err)
		}
		return writeError(c, l, "vendor_register_error", err, nil)
	}

	l.Info("vendor_register_success", "vendor_id", v.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Vendor registered successfully.",
		"data": echo.Map{
			"id":                v.ID,
			"store_name":        v.StoreName,
			"store_description": v.StoreDescription,
			"commission_rate":   v.CommissionRate.StringFixed(2),
		},
	})
}

func (h *VendorHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.list_orders")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "vendor_orders_error", err)
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	offset, limit := util.Calculate(page, util.OrderPageSize)

	orders, total, err := h.Orders.ListVendorOrders(ctx, uid, offset, limit)
	if err != nil {
		return writeError(c, l, "vendor_orders_error", err, vendorMessages)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": transport.NewVendorOrderViews(orders),
		"meta": util.Meta(page, limit, total),
	})
}

func (h *VendorHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.get_order")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "vendor_order_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "vendor_order_error", "id is not a positive integer", err)
	}

	vo, err := h.Orders.GetVendorOrder(ctx, uid, id)
	if err != nil {
		return writeError(c, l, "vendor_order_error", err, vendorMessages)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": transport.NewVendorOrderView(vo)})
}

func (h *VendorHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "vendor.update_status")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "shipping_status_error", err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "shipping_status_error", "id is not a positive integer", err)
	}

	var req transport.UpdateShippingStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "shipping_status_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "shipping_status_error", err, nil)
	}

	vo, err := h.Orders.UpdateShippingStatus(ctx, uid, id, req.Status)
	if err != nil {
		return writeError(c, l, "shipping_status_error", err, vendorMessages)
	}

	l.Info("shipping_status_updated", "vendor_order_id", vo.ID, "shipping_status", vo.ShippingStatus)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order status updated successfully.",
		"data":    transport.NewVendorOrderView(vo),
	})
}
