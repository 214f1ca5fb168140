package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	accessCookie = "accessToken"
)

type AuthMiddleware struct {
	JWTSecret []byte
}

func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{JWTSecret: secret}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := tokenFromRequest(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil || claims == nil || claims.Subject == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)

		req := c.Request()
		c.SetRequest(req.WithContext(logging.With(req.Context(), "user_id", claims.Subject)))
		return next(c)
	}
}

// tokenFromRequest prefers the Authorization header and falls back to the cookie.
func tokenFromRequest(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(tok)
	}
	if ck, err := c.Cookie(accessCookie); err == nil {
		return ck.Value
	}
	return ""
}
