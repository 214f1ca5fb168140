package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/money"
	"github.com/Skotchmaster/marketplace/internal/repo/repotest"
)

func TestCartLifecycle(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	svc := &CartService{Repo: m.repo, Events: m.events}

	first, err := svc.AddToCart(ctx, m.buyer.ID, m.shoes.ID, 1)
	require.NoError(t, err)
	again, err := svc.AddToCart(ctx, m.buyer.ID, m.shoes.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 3, again.Quantity)

	_, err = svc.AddToCart(ctx, m.buyer.ID, m.hat.ID, 1)
	require.NoError(t, err)

	cart, err := svc.GetCart(ctx, m.buyer.ID)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "350.00", money.Format(cart.GrandTotal))

	line, err := svc.UpdateQuantity(ctx, m.buyer.ID, first.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	require.NoError(t, svc.RemoveLine(ctx, m.buyer.ID, first.ID))
	require.ErrorIs(t, svc.RemoveLine(ctx, m.buyer.ID, first.ID), ErrNotFound)

	assert.Equal(t, []string{"cart_item_added", "cart_item_added", "cart_item_added", "cart_item_removed"}, m.events.types())
}

func TestCartOwnership(t *testing.T) {
	t.Parallel()
	m := newMarket(t)
	ctx := context.Background()
	svc := &CartService{Repo: m.repo}

	_, err := svc.AddToCart(ctx, m.buyer.ID, 9999, 1)
	require.ErrorIs(t, err, ErrNotFound)

	other := repotest.User(t, m.repo.DB, "other@example.test")
	line := repotest.CartLine(t, m.repo.DB, other.ID, m.hat.ID, 1)

	_, err = svc.UpdateQuantity(ctx, m.buyer.ID, line.ID, 2)
	require.ErrorIs(t, err, ErrNotFound)
	updated, err := svc.UpdateQuantity(ctx, other.ID, line.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)
	require.ErrorIs(t, svc.RemoveLine(ctx, m.buyer.ID, line.ID), ErrNotFound)
}
