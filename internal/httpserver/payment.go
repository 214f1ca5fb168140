package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

// Callback receives gateway notifications. It is unauthenticated; the
// signature in the body is the only proof of origin.
func (h *PaymentHTTP) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.callback")

	var n service.Notification
	if err := c.Bind(&n); err != nil {
		return badRequest(c, l, "callback_error", "invalid body", err)
	}

	if _, err := h.Svc.HandleCallback(ctx, n); err != nil {
		return writeError(c, l, "callback_error", err, messages{
			http.StatusForbidden: "Invalid Signature",
			http.StatusNotFound:  "Order not found",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Callback received successfully"})
}
