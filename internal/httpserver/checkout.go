package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/money"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.create")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "checkout_error", err)
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		verr := &service.ValidationError{Fields: map[string]string{"selected_cart_ids": "selected_cart_ids must be an array of integers"}}
		return writeError(c, l, "checkout_error", verr, nil)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "checkout_error", err, nil)
	}

	res, err := h.Svc.Checkout(ctx, uid, req.SelectedCartIDs)
	if err != nil {
		return writeError(c, l, "checkout_error", err, messages{
			http.StatusInternalServerError: "An unexpected error occurred during checkout.",
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status":        "success",
		"message":       "Order created, waiting for payment",
		"gateway_token": res.GatewayToken,
		"order_id":      res.OrderID,
		"total_amount":  money.Format(res.TotalAmount),
		"redirect_url":  res.RedirectURL,
	})
}
