package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
)

type fakeIndex struct {
	docs      map[string]any
	ids       []string
	searchErr error
}

func (f *fakeIndex) Put(_ context.Context, id string, doc any) error {
	if f.docs == nil {
		f.docs = map[string]any{}
	}
	f.docs[id] = doc
	return nil
}

func (f *fakeIndex) SearchIDs(context.Context, string, []string, int) ([]string, error) {
	return f.ids, f.searchErr
}

func intPtr(v int) *int { return &v }

func TestCreateProduct(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	idx := &fakeIndex{}
	svc := &CatalogService{Repo: m.repo, Events: m.events, Index: idx}

	price := m.shoes.Price.Add(m.shoes.Price)
	p, err := svc.CreateProduct(ctx, m.vendorA.UserID, transport.CreateProductRequest{
		Title:         " Boots ",
		Price:         &price,
		StockQuantity: intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "Boots", p.Title)
	assert.Equal(t, m.vendorA.ID, p.VendorID)
	assert.Contains(t, idx.docs, "4")
	assert.Equal(t, []string{"product_created"}, m.events.types())

	_, err = svc.CreateProduct(ctx, m.buyer.ID, transport.CreateProductRequest{Title: "x", Price: &price, StockQuantity: intPtr(1)})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCreateProductRequiresPriceAndStock(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	svc := &CatalogService{Repo: m.repo}

	_, err := svc.CreateProduct(context.Background(), m.vendorA.UserID, transport.CreateProductRequest{
		Title:         "Laces",
		StockQuantity: intPtr(1),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestListProductsUsesIndex(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	idx := &fakeIndex{ids: []string{"3", "junk"}}
	svc := &CatalogService{Repo: m.repo, Index: idx}

	items, total, err := svc.ListProducts(ctx, repo.ProductFilter{Search: "headwear", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, m.hat.ID, items[0].ID)

	idx.searchErr = errors.New("index down")
	items, total, err = svc.ListProducts(ctx, repo.ProductFilter{Search: "sock", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, m.socks.ID, items[0].ID)
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	svc := &CatalogService{Repo: m.repo}

	p, err := svc.GetProduct(context.Background(), m.hat.ID)
	require.NoError(t, err)
	require.NotNil(t, p.Vendor)
	assert.Equal(t, "beta", p.Vendor.StoreName)

	_, err = svc.GetProduct(context.Background(), 777)
	require.ErrorIs(t, err, ErrNotFound)
}
