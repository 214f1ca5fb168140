package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/repo/repotest"
)

func TestCheckoutCreated(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	line := repotest.CartLine(t, env.repo.DB, env.buyer.ID, env.mug.ID, 2)
	rec := call(t, env.deps.CheckoutHandler.Checkout, http.MethodPost, "/api/v1/checkout",
		map[string]any{"selected_cart_ids": []uint{line.ID}}, env.buyer.ID)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Order created, waiting for payment", body["message"])
	assert.Equal(t, "25.00", body["total_amount"])
	assert.EqualValues(t, 1, body["order_id"])
	assert.Equal(t, "snap-1", body["gateway_token"])
	assert.Equal(t, "https://pay.test/snap-1", body["redirect_url"])
}

func TestCheckoutErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty selection", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		rec := call(t, env.deps.CheckoutHandler.Checkout, http.MethodPost, "/api/v1/checkout",
			map[string]any{"selected_cart_ids": []uint{}}, env.buyer.ID)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		errs := decode(t, rec)["errors"].(map[string]any)
		assert.Contains(t, errs, "selected_cart_ids")
	})

	t.Run("unknown lines", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		rec := call(t, env.deps.CheckoutHandler.Checkout, http.MethodPost, "/api/v1/checkout",
			map[string]any{"selected_cart_ids": []uint{77}}, env.buyer.ID)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "Checkout failed.", decode(t, rec)["message"])
	})

	t.Run("insufficient stock", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		line := repotest.CartLine(t, env.repo.DB, env.buyer.ID, env.mug.ID, 9)
		rec := call(t, env.deps.CheckoutHandler.Checkout, http.MethodPost, "/api/v1/checkout",
			map[string]any{"selected_cart_ids": []uint{line.ID}}, env.buyer.ID)
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.EqualValues(t, env.mug.ID, decode(t, rec)["product_id"])
	})

	t.Run("gateway down", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.gateway.err = errGatewayDown
		line := repotest.CartLine(t, env.repo.DB, env.buyer.ID, env.mug.ID, 1)
		rec := call(t, env.deps.CheckoutHandler.Checkout, http.MethodPost, "/api/v1/checkout",
			map[string]any{"selected_cart_ids": []uint{line.ID}}, env.buyer.ID)
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.NotContains(t, rec.Body.String(), "gateway down")
		assert.Equal(t, 4, repotest.Stock(t, env.repo.DB, env.mug.ID))
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		rec := call(t, env.deps.CheckoutHandler.Checkout, http.MethodPost, "/api/v1/checkout",
			map[string]any{"selected_cart_ids": []uint{1}}, 0)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
