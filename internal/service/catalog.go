package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/money"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/transport"
	"github.com/Skotchmaster/marketplace/pkg/logging"
)

// searchCandidates caps how many ids the search index may return for one query.
const searchCandidates = 500

var searchFields = []string{"title^2", "description"}

type ProductIndex interface {
	Put(ctx context.Context, id string, doc any) error
	SearchIDs(ctx context.Context, query string, fields []string, limit int) ([]string, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Events Publisher
	// Index is optional; without it title search runs in SQL.
	Index ProductIndex
}

type productDoc struct {
	ID          uint   `json:"id"`
	VendorID    uint   `json:"vendor_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter) ([]models.Product, int64, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.list")

	if s.Index != nil && strings.TrimSpace(f.Search) != "" {
		ids, err := s.searchIDs(ctx, f.Search)
		if err == nil {
			f.IDs = ids
		} else {
			l.Warn("search_index_unavailable", "error", err)
		}
	}
	return s.Repo.ListProducts(ctx, f)
}

func (s *CatalogService) searchIDs(ctx context.Context, query string) ([]uint, error) {
	raw, err := s.Index.SearchIDs(ctx, query, searchFields, searchCandidates)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseUint(r, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, userID uint, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Price == nil || req.StockQuantity == nil {
		return nil, fmt.Errorf("%w: price and stock_quantity are required", ErrValidation)
	}

	v, err := vendorForUser(ctx, s.Repo, userID)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		VendorID:      v.ID,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Price:         money.Round(*req.Price),
		StockQuantity: *req.StockQuantity,
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	p.Vendor = v

	key := strconv.FormatUint(uint64(p.ID), 10)
	if s.Index != nil {
		doc := productDoc{ID: p.ID, VendorID: p.VendorID, Title: p.Title, Description: p.Description, Price: money.Format(p.Price)}
		if err := s.Index.Put(ctx, key, doc); err != nil {
			logging.FromContext(ctx).Warn("index_product_failed", "product_id", p.ID, "error", err)
		}
	}

	publish(ctx, s.Events, TopicProducts, key, map[string]any{
		"type":      "product_created",
		"productID": p.ID,
		"vendorID":  p.VendorID,
		"title":     p.Title,
		"price":     money.Format(p.Price),
	})
	return p, nil
}
