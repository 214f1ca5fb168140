package httpserver

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoutExpiresSessionCookies(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := call(t, env.deps.AuthHandler.Logout, http.MethodPost, "/api/v1/auth/logout", nil, 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully logged out.", decode(t, rec)["message"])

	cookies := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	for _, name := range []string{"accessToken", "XSRF-TOKEN"} {
		ck, ok := cookies[name]
		require.True(t, ok, name)
		assert.Empty(t, ck.Value, name)
		assert.Equal(t, "/", ck.Path, name)
		assert.Negative(t, ck.MaxAge, name)
	}
	assert.True(t, cookies["accessToken"].HttpOnly)
	assert.False(t, cookies["XSRF-TOKEN"].HttpOnly)
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := call(t, env.deps.AuthHandler.Me, http.MethodGet, "/api/v1/user", nil, env.buyer.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	data := decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, env.buyer.ID, data["id"])
	assert.Equal(t, "buyer@example.test", data["email"])
	assert.Equal(t, "user", data["role"])

	rec = call(t, env.deps.AuthHandler.Me, http.MethodGet, "/api/v1/user", nil, env.vendor.UserID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "vendor", decode(t, rec)["data"].(map[string]any)["role"])

	rec = call(t, env.deps.AuthHandler.Me, http.MethodGet, "/api/v1/user", nil, 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, env.deps.AuthHandler.Me, http.MethodGet, "/api/v1/user", nil, 9999)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogoutRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	e := echo.New()
	Register(e, env.deps)

	rec := serve(t, e, http.MethodPost, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 2)

	rec = serve(t, e, http.MethodGet, "/api/v1/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
