package service

import (
	"context"
	"testing"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	ctx := t.Context()
	s := NewWishlist(newTestStore(t))

	apple := domain.NewWishlistItem(domain.Product{
		ID: "p1", Name: "Red Apple", Price: decimal.NewFromInt(250),
	})
	pepper := domain.NewWishlistItem(domain.Product{ID: "p2", Name: "Bell Pepper"})

	added, err := s.Toggle(ctx, "u1", apple)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Toggle(ctx, "u1", pepper)
	require.NoError(t, err)
	assert.True(t, added)

	items, err := s.Items(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	added, err = s.Toggle(ctx, "u1", apple)
	require.NoError(t, err)
	assert.False(t, added)

	require.NoError(t, s.Remove(ctx, "u1", "p2"))
	items, err = s.Items(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = s.Toggle(ctx, "u1", domain.WishlistItem{})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Toggle(ctx, "", apple)
	require.NoError(t, err)
	guest, err := s.Items(ctx, domain.GuestUserID)
	require.NoError(t, err)
	assert.Len(t, guest, 1)

	require.NoError(t, s.Clear(ctx, ""))
	guest, err = s.Items(ctx, domain.GuestUserID)
	require.NoError(t, err)
	assert.Empty(t, guest)
}

func TestWishlistWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	s := NewWishlist(newTestStore(t))
	items := s.Watch(ctx, "")

	first := next(t, items)
	assert.NotNil(t, first)
	assert.Empty(t, first)

	_, err := s.Toggle(ctx, domain.GuestUserID, domain.NewWishlistItem(domain.Product{ID: "p1"}))
	require.NoError(t, err)

	second := next(t, items)
	require.Len(t, second, 1)
	assert.Equal(t, domain.GuestUserID, second[0].UserID)

	cancel()
	requireClosed(t, items)
}
