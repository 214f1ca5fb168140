package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/gateway"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/repo/repotest"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	middleware "github.com/Skotchmaster/marketplace/pkg/middleware/auth"
)

const serverKey = "SB-Mid-server-handlers"

type stubGateway struct {
	err error
}

func (g *stubGateway) CreateTransaction(_ context.Context, req gateway.TransactionRequest) (*gateway.Transaction, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.Transaction{Token: "snap-" + req.OrderID, RedirectURL: "https://pay.test/snap-" + req.OrderID}, nil
}

type testEnv struct {
	repo    *repo.GormRepo
	gateway *stubGateway
	deps    *Deps

	buyer  *models.User
	vendor *models.Vendor
	mug    *models.Product
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	r := repotest.NewRepo(t)
	gw := &stubGateway{}
	events := service.NopPublisher{}

	env := &testEnv{repo: r, gateway: gw}
	env.deps = &Deps{
		DB:        r.DB,
		JWTSecret: []byte("handler-secret"),

		AuthHandler:     &AuthHTTP{Svc: &service.AuthService{Repo: r, JWTSecret: []byte("handler-secret"), AccessTTL: time.Hour}},
		CatalogHandler:  &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Events: events}},
		CartHandler:     &CartHTTP{Svc: &service.CartService{Repo: r, Events: events}},
		WishlistHandler: &WishlistHTTP{Svc: &service.WishlistService{Repo: r}},
		VendorHandler: &VendorHTTP{
			Svc:    &service.VendorService{Repo: r, CommissionPercent: repotest.Dec("5.00")},
			Orders: &service.VendorOrderService{Repo: r, Events: events},
		},
		CheckoutHandler: &CheckoutHTTP{Svc: &service.CheckoutService{
			Repo: r, Gateway: gw, Events: events, CommissionRate: repotest.Dec("0.10"),
		}},
		OrderHandler:   &OrderHTTP{Svc: &service.OrderService{Repo: r}},
		PaymentHandler: &PaymentHTTP{Svc: &service.PaymentService{Repo: r, ServerKey: serverKey, Events: events}},
	}

	env.buyer = repotest.User(t, r.DB, "buyer@example.test")
	env.vendor = repotest.Vendor(t, r.DB, "mugs")
	env.mug = repotest.Product(t, r.DB, env.vendor.ID, "Mug", "12.50", 4)
	return env
}

// call runs h against a fresh echo context; userID 0 means anonymous.
func call(t *testing.T, h echo.HandlerFunc, method, target string, body any, userID uint, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	e := echo.New()
	e.Validator = NewRequestValidator()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set(middleware.CtxUserID, strconv.FormatUint(uint64(userID), 10))
	}
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}

	require.NoError(t, h(c))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// checkoutMug puts qty mugs in the buyer's cart and checks them out.
func (env *testEnv) checkoutMug(t *testing.T, qty int) uint {
	t.Helper()
	line := repotest.CartLine(t, env.repo.DB, env.buyer.ID, env.mug.ID, qty)
	rec := call(t, env.deps.CheckoutHandler.Checkout, http.MethodPost, "/api/v1/checkout",
		map[string]any{"selected_cart_ids": []uint{line.ID}}, env.buyer.ID)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return uint(decode(t, rec)["order_id"].(float64))
}

var errGatewayDown = errors.New("gateway down")

func testLogger() *slog.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}
