package service

import (
	"context"
	"fmt"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/marketplace/internal/gateway"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/repo/repotest"
)

type fakeGateway struct {
	mu       sync.Mutex
	err      error
	requests []gateway.TransactionRequest
}

func (g *fakeGateway) CreateTransaction(_ context.Context, req gateway.TransactionRequest) (*gateway.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	token := fmt.Sprintf("tok-%s", req.OrderID)
	return &gateway.Transaction{Token: token, RedirectURL: "https://pay.test/" + token}, nil
}

// blockingGateway never answers; it returns once ctx is done.
type blockingGateway struct{}

func (blockingGateway) CreateTransaction(ctx context.Context, _ gateway.TransactionRequest) (*gateway.Transaction, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, errors.New("request was never cancelled")
	}
}

type event struct {
	Topic string
	Key   string
	Body  map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, ev any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	body, _ := ev.(map[string]any)
	p.events = append(p.events, event{Topic: topic, Key: key, Body: body})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, fmt.Sprint(e.Body["type"]))
	}
	return out
}

type stubLocker struct {
	held bool
}

func (l *stubLocker) TryLock(context.Context, string) (func(), bool, error) {
	if l.held {
		return nil, false, nil
	}
	return func() {}, true, nil
}

const testServerKey = "SB-Mid-server-test"

// market is a seeded store with two vendors and one buyer.
type market struct {
	repo     *repo.GormRepo
	gateway  *fakeGateway
	events   *recordingPublisher
	checkout *CheckoutService
	payments *PaymentService

	buyer   *models.User
	vendorA *models.Vendor
	vendorB *models.Vendor
	shoes   *models.Product
	socks   *models.Product
	hat     *models.Product
}

func newMarket(t *testing.T) *market {
	t.Helper()

	r := repotest.NewRepo(t)
	gw := &fakeGateway{}
	pub := &recordingPublisher{}

	m := &market{
		repo:    r,
		gateway: gw,
		events:  pub,
		checkout: &CheckoutService{
			Repo:           r,
			Gateway:        gw,
			Events:         pub,
			CommissionRate: repotest.Dec("0.10"),
		},
		payments: &PaymentService{Repo: r, ServerKey: testServerKey, Events: pub},
	}

	m.buyer = repotest.User(t, r.DB, "buyer@example.test")
	m.vendorA = repotest.Vendor(t, r.DB, "alpha")
	m.vendorB = repotest.Vendor(t, r.DB, "beta")
	m.shoes = repotest.Product(t, r.DB, m.vendorA.ID, "Shoes", "100.00", 5)
	m.socks = repotest.Product(t, r.DB, m.vendorA.ID, "Socks", "10.00", 10)
	m.hat = repotest.Product(t, r.DB, m.vendorB.ID, "Hat", "50.00", 3)
	return m
}

// placeOrder checks out one pair of shoes and one hat and returns the order id.
func (m *market) placeOrder(t *testing.T) uint {
	t.Helper()
	a := repotest.CartLine(t, m.repo.DB, m.buyer.ID, m.shoes.ID, 1)
	b := repotest.CartLine(t, m.repo.DB, m.buyer.ID, m.hat.ID, 1)
	res, err := m.checkout.Checkout(context.Background(), m.buyer.ID, []uint{a.ID, b.ID})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	return res.OrderID
}
