package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/middleware/csrf"
)

const accessCookie = "accessToken"

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "register_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "register_error", err, nil)
	}

	u, err := h.Svc.Register(ctx, req)
	if err != nil {
		return writeError(c, l, "register_error", err, messages{http.StatusConflict: "The email has already been taken."})
	}

	l.Info("register_success", "user_id", u.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully.",
		"data": echo.Map{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
		},
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "login_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "login_error", err, nil)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return writeError(c, l, "login_failed", err, messages{http.StatusUnauthorized: "Invalid email or password."})
	}

	c.SetCookie(&http.Cookie{
		Name:     accessCookie,
		Value:    res.AccessToken,
		Path:     "/",
		Expires:  res.AccessExp,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	l.Info("login_success", "user_id", res.User.ID, "role", res.Role)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   res.AccessExp,
		"role":         res.Role,
	})
}

// Logout expires the session and CSRF cookies. Bearer tokens stay valid until they expire.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	c.SetCookie(h.deleteCookie(accessCookie, true))
	c.SetCookie(h.deleteCookie(csrf.DefaultConfig().CookieName, false))

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Successfully logged out.",
	})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "me_error", err)
	}

	u, role, err := h.Svc.CurrentUser(ctx, uid)
	if err != nil {
		return writeError(c, l, "me_error", err, nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": transport.NewUserView(u, role)})
}

func (h *AuthHTTP) deleteCookie(name string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
