package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/internal/util"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("per_page"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	f := repo.ProductFilter{
		Search:   c.QueryParam("search"),
		VendorID: uint(util.ParseIntDefault(c.QueryParam("vendor_id"), 0)),
		Sort:     strings.ToLower(c.QueryParam("sort")),
		Offset:   offset,
		Limit:    limit,
	}

	fields := map[string]string{}
	if v := c.QueryParam("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			fields["min_price"] = "min_price must be a number"
		}
		f.MinPrice = &d
	}
	if v := c.QueryParam("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			fields["max_price"] = "max_price must be a number"
		}
		f.MaxPrice = &d
	}
	if len(fields) > 0 {
		return writeError(c, l, "get_products_error", &service.ValidationError{Fields: fields}, nil)
	}

	items, total, err := h.Svc.ListProducts(ctx, f)
	if err != nil {
		return writeError(c, l, "get_products_error", err, nil)
	}

	l.Info("get_products_success", "total", total)
	return c.JSON(http.StatusOK, echo.Map{
		"data": transport.NewProductViews(items),
		"meta": util.Meta(page, limit, total),
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, l, "get_product_error", "id is not a positive integer", err)
	}

	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return writeError(c, l, "get_product_error", err, messages{http.StatusNotFound: "Product not found."})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": transport.NewProductView(p)})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	uid, err := userID(c)
	if err != nil {
		return unauthorized(c, l, "create_product_error", err)
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, l, "create_product_error", "invalid body", err)
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, l, "create_product_error", err, nil)
	}

	p, err := h.Svc.CreateProduct(ctx, uid, req)
	if err != nil {
		return writeError(c, l, "create_product_error", err, messages{http.StatusForbidden: "User is not a registered vendor."})
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, echo.Map{"data": transport.NewProductView(p)})
}
