package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	middleware "github.com/Skotchmaster/marketplace/pkg/middleware/auth"
)

var errNoUser = errors.New("unauthorized")

// messages overrides the default client message per status code.
type messages map[int]string

func (m messages) pick(code int, def string) string {
	if msg, ok := m[code]; ok {
		return msg
	}
	return def
}

// writeError maps service errors onto status codes. Only 500s are logged at
// error level; internal error text is never sent to the client.
func writeError(c echo.Context, l *slog.Logger, event string, err error, m messages) error {
	var verr *service.ValidationError
	var serr *service.StockError

	switch {
	case errors.As(err, &verr):
		l.Warn(event, "status", http.StatusUnprocessableEntity, "error", err)
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": m.pick(http.StatusUnprocessableEntity, "The given data was invalid."),
			"errors":  verr.Fields,
		})
	case errors.Is(err, service.ErrEmptyCart):
		l.Warn(event, "status", http.StatusUnprocessableEntity, "reason", "empty cart", "error", err)
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "Checkout failed.",
			"errors":  map[string]string{"selected_cart_ids": "none of the selected cart items exist"},
		})
	case errors.As(err, &serr):
		l.Warn(event, "status", http.StatusConflict, "reason", "insufficient stock", "product_id", serr.ProductID)
		return c.JSON(http.StatusConflict, echo.Map{
			"message":    "Insufficient stock for " + serr.Title + ".",
			"product_id": serr.ProductID,
			"requested":  serr.Requested,
			"available":  serr.Available,
		})
	case errors.Is(err, service.ErrUnauthorized):
		l.Warn(event, "status", http.StatusUnauthorized, "error", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": m.pick(http.StatusUnauthorized, "Invalid credentials.")})
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrInvalidSignature):
		l.Warn(event, "status", http.StatusForbidden, "error", err)
		return c.JSON(http.StatusForbidden, echo.Map{"message": m.pick(http.StatusForbidden, "Forbidden.")})
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "error", err)
		return c.JSON(http.StatusNotFound, echo.Map{"message": m.pick(http.StatusNotFound, "Not found.")})
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", http.StatusConflict, "error", err)
		return c.JSON(http.StatusConflict, echo.Map{"message": m.pick(http.StatusConflict, "The request conflicts with the current state.")})
	case errors.Is(err, service.ErrPaymentGateway):
		l.Error(event, "status", http.StatusBadGateway, "reason", "payment gateway", "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"message": m.pick(http.StatusBadGateway, "Payment gateway is unavailable, please try again.")})
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": m.pick(http.StatusInternalServerError, "internal server error")})
	}
}

func userID(c echo.Context) (uint, error) {
	s, ok := c.Get(middleware.CtxUserID).(string)
	if !ok || s == "" {
		return 0, errNoUser
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errNoUser
	}
	return uint(id), nil
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(name + " is not a positive integer")
	}
	return uint(id), nil
}

func unauthorized(c echo.Context, l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusUnauthorized, "error", err)
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthenticated."})
}

func badRequest(c echo.Context, l *slog.Logger, event, msg string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", msg, "error", err)
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg})
}
