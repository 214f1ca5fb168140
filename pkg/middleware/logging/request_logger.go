package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/pkg/logging"
)

// UserKey is the echo context key the auth middleware stores the subject under.
const UserKey = "user_id"

// RequestLogger puts a request scoped logger into the request context and
// writes one summary line per request. It must run after the request id
// middleware so generated ids are picked up.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			attrs := []any{
				"method", req.Method,
				"route", c.Path(),
				"remote_ip", c.RealIP(),
			}
			if rid := requestID(c); rid != "" {
				attrs = append(attrs, "request_id", rid)
			}
			l := base.With(attrs...)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			res := c.Response()
			summary := []any{
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", res.Size,
			}
			if uid, ok := c.Get(UserKey).(string); ok && uid != "" {
				summary = append(summary, "user_id", uid)
			}

			switch {
			case res.Status >= 500:
				if err != nil {
					summary = append(summary, "error", err.Error())
				}
				l.Error("request_completed", summary...)
			case res.Status >= 400:
				l.Warn("request_completed", summary...)
			default:
				l.Info("request_completed", summary...)
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
