package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/niksmo/smartmart/internal/adapter/localstore"
	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func cartItem(id string, price int64, qty int) domain.CartItem {
	return domain.NewCartItem(domain.Product{
		ID:    id,
		Name:  "product " + id,
		Price: decimal.NewFromInt(price),
	}, qty)
}

func TestCartAddMergesQuantity(t *testing.T) {
	ctx := t.Context()
	s := NewCart(newTestStore(t))

	require.NoError(t, s.Add(ctx, "u1", cartItem("p1", 250, 2)))
	require.NoError(t, s.Add(ctx, "u1", cartItem("p1", 250, 1)))

	cart, err := s.Snapshot(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p1", cart.Items[0].ProductID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "750", cart.Total.String())
}

func TestCartAddValidation(t *testing.T) {
	s := NewCart(newTestStore(t))

	err := s.Add(t.Context(), "u1", cartItem("p1", 250, 0))
	require.ErrorIs(t, err, domain.ErrValidation)

	err = s.Add(t.Context(), "u1", cartItem("p1", 250, -2))
	require.ErrorIs(t, err, domain.ErrValidation)

	err = s.Add(t.Context(), "u1", cartItem("", 250, 1))
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartSetQuantity(t *testing.T) {
	ctx := t.Context()
	s := NewCart(newTestStore(t))

	require.NoError(t, s.Add(ctx, "u1", cartItem("p1", 100, 2)))
	require.NoError(t, s.Add(ctx, "u1", cartItem("p2", 10, 1)))

	require.NoError(t, s.SetQuantity(ctx, "u1", "p1", 5))
	cart, err := s.Snapshot(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "510", cart.Total.String())

	for _, qty := range []int{0, -1} {
		require.NoError(t, s.Add(ctx, "u1", cartItem("p3", 1, 1)))
		require.NoError(t, s.SetQuantity(ctx, "u1", "p3", qty))

		cart, err := s.Snapshot(ctx, "u1")
		require.NoError(t, err)
		for _, item := range cart.Items {
			assert.NotEqual(t, "p3", item.ProductID)
		}
	}
}

func TestCartClearAndGuest(t *testing.T) {
	ctx := t.Context()
	s := NewCart(newTestStore(t))

	require.NoError(t, s.Add(ctx, "", cartItem("p1", 100, 1)))
	require.NoError(t, s.Add(ctx, "u1", cartItem("p1", 100, 1)))

	guest, err := s.Snapshot(ctx, domain.GuestUserID)
	require.NoError(t, err)
	require.Len(t, guest.Items, 1)

	require.NoError(t, s.Remove(ctx, "u1", "p1"))
	require.NoError(t, s.Clear(ctx, ""))

	for _, user := range []domain.UserID{"u1", domain.GuestUserID} {
		cart, err := s.Snapshot(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.True(t, cart.Total.IsZero())
	}
}

func TestCartTotalFollowsItems(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	s := NewCart(newTestStore(t))
	totals := s.Total(ctx, "u1")

	assert.True(t, next(t, totals).IsZero())

	require.NoError(t, s.Add(ctx, "u1", cartItem("p1", 250, 2)))
	assert.Equal(t, "500", next(t, totals).String())

	require.NoError(t, s.Add(ctx, "u1", cartItem("p2", 5, 3)))
	assert.Equal(t, "515", next(t, totals).String())

	require.NoError(t, s.Clear(ctx, "u1"))
	assert.True(t, next(t, totals).IsZero())

	cancel()
	requireClosed(t, totals)
}
