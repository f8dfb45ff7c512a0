package localstore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func testProduct(id, name string, c domain.Category) domain.Product {
	return domain.Product{
		ID:           id,
		Name:         name,
		Description:  name + " description",
		Price:        decimal.RequireFromString("250.50"),
		Category:     c,
		ImageURL:     "https://img.example/" + id,
		Rating:       4.5,
		Stock:        10,
		LastModified: time.UnixMilli(1700000000000).UTC(),
	}
}

func receive[T any](t *testing.T, c <-chan domain.Update[T]) domain.Update[T] {
	t.Helper()
	select {
	case u, ok := <-c:
		require.True(t, ok, "stream closed")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("no update received")
	}
	panic("unreachable")
}

func TestStoreProducts(t *testing.T) {
	ctx := t.Context()

	t.Run("UpsertAndGet", func(t *testing.T) {
		s := newTestStore(t)
		p := testProduct("p1", "Red Apple", domain.CategoryFruits)

		require.NoError(t, s.UpsertProducts(ctx, []domain.Product{p}))

		got, err := s.Product(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, p.Description, got.Description)
		assert.True(t, p.Price.Equal(got.Price))
		assert.Equal(t, p.Category, got.Category)
		assert.Equal(t, p.ImageURL, got.ImageURL)
		assert.Equal(t, p.Rating, got.Rating)
		assert.Equal(t, p.Stock, got.Stock)
		assert.True(t, p.LastModified.Equal(got.LastModified))
	})

	t.Run("Missing", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Product(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("UpsertKeepsAbsentRows", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.UpsertProducts(ctx, []domain.Product{
			testProduct("p1", "Red Apple", domain.CategoryFruits),
			testProduct("p2", "Bell Pepper", domain.CategoryVegetables),
		}))

		renamed := testProduct("p1", "Green Apple", domain.CategoryFruits)
		require.NoError(t, s.UpsertProducts(ctx, []domain.Product{renamed}))

		vs, err := s.Products(ctx, domain.ProductQuery{})
		require.NoError(t, err)
		require.Len(t, vs, 2)
		assert.Equal(t, "Green Apple", vs[0].Name)
		assert.Equal(t, "p2", vs[1].ID)
	})

	t.Run("RejectsEmptyID", func(t *testing.T) {
		s := newTestStore(t)
		err := s.UpsertProducts(ctx, []domain.Product{
			testProduct("p1", "Red Apple", domain.CategoryFruits),
			testProduct("", "No ID", domain.CategoryOther),
		})
		require.ErrorIs(t, err, domain.ErrValidation)

		vs, err := s.Products(ctx, domain.ProductQuery{})
		require.NoError(t, err)
		assert.Empty(t, vs, "batch must be atomic")
	})

	t.Run("Query", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.UpsertProducts(ctx, []domain.Product{
			testProduct("p1", "Red Apple", domain.CategoryFruits),
			testProduct("p2", "Fresh Banana 1kg", domain.CategoryFruits),
			testProduct("p3", "Bell Pepper", domain.CategoryVegetables),
		}))

		fruits, err := s.Products(ctx, domain.ProductQuery{Category: domain.CategoryFruits})
		require.NoError(t, err)
		assert.Len(t, fruits, 2)

		byName, err := s.Products(ctx, domain.ProductQuery{NameContains: "apple"})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "p1", byName[0].ID)

		all, err := s.Products(ctx, domain.ProductQuery{Category: domain.CategoryAll})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("DeleteOps", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.UpsertProducts(ctx, []domain.Product{
			testProduct("p1", "Red Apple", domain.CategoryFruits),
			testProduct("p2", "Fresh Banana 1kg", domain.CategoryFruits),
			testProduct("p3", "Bell Pepper", domain.CategoryVegetables),
		}))

		require.NoError(t, s.DeleteProduct(ctx, "p3"))

		n, err := s.DeleteProductsWhere(ctx, func(p domain.Product) bool {
			return p.Name == "Red Apple"
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		vs, err := s.Products(ctx, domain.ProductQuery{})
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Equal(t, "p2", vs[0].ID)

		require.NoError(t, s.DeleteAllProducts(ctx))
		vs, err = s.Products(ctx, domain.ProductQuery{})
		require.NoError(t, err)
		assert.Empty(t, vs)
	})
}

func TestStoreWatchProducts(t *testing.T) {
	s := newTestStore(t)

	updates := s.WatchProducts(t.Context(), domain.ProductQuery{})

	first := receive(t, updates)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Value)

	require.NoError(t, s.UpsertProducts(t.Context(), []domain.Product{
		testProduct("p1", "Red Apple", domain.CategoryFruits),
	}))

	second := receive(t, updates)
	require.NoError(t, second.Err)
	require.Len(t, second.Value, 1)
	assert.Equal(t, "p1", second.Value[0].ID)
}

func TestStoreWatchClosesOnCancel(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(t.Context())

	updates := s.WatchProducts(ctx, domain.ProductQuery{})
	receive(t, updates)
	cancel()

	select {
	case _, ok := <-updates:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream not closed")
	}
}

func TestStoreCart(t *testing.T) {
	ctx := t.Context()
	apple := testProduct("p1", "Red Apple", domain.CategoryFruits)

	newItem := func(user domain.UserID, qty int) domain.CartItem {
		item := domain.NewCartItem(apple, qty)
		item.UserID = user
		return item
	}

	t.Run("IncrementMergesRows", func(t *testing.T) {
		s := newTestStore(t)

		require.NoError(t, s.IncrementCartItem(ctx, newItem("u1", 2)))
		require.NoError(t, s.IncrementCartItem(ctx, newItem("u1", 1)))

		items, err := s.CartItems(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
		assert.NotEmpty(t, items[0].ID)
		assert.False(t, items[0].AddedAt.IsZero())
	})

	t.Run("ConcurrentIncrements", func(t *testing.T) {
		s := newTestStore(t)

		const n = 20
		var wg sync.WaitGroup
		wg.Add(n)
		for range n {
			go func() {
				defer wg.Done()
				assert.NoError(t, s.IncrementCartItem(ctx, newItem("u1", 1)))
			}()
		}
		wg.Wait()

		items, err := s.CartItems(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, n, items[0].Quantity)
	})

	t.Run("InvalidQuantity", func(t *testing.T) {
		s := newTestStore(t)
		err := s.IncrementCartItem(ctx, newItem("u1", 0))
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("SetQuantity", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.IncrementCartItem(ctx, newItem("u1", 2)))

		require.NoError(t, s.SetCartQuantity(ctx, "u1", "p1", 5))
		items, err := s.CartItems(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)

		require.NoError(t, s.SetCartQuantity(ctx, "u1", "p1", 0))
		items, err = s.CartItems(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, items)

		require.NoError(t, s.SetCartQuantity(ctx, "u1", "absent", 3))
		items, err = s.CartItems(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("ScopedByUser", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.IncrementCartItem(ctx, newItem("u1", 1)))
		require.NoError(t, s.IncrementCartItem(ctx, newItem(domain.GuestUserID, 4)))

		require.NoError(t, s.ClearCart(ctx, "u1"))

		items, err := s.CartItems(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, items)

		guest, err := s.CartItems(ctx, domain.GuestUserID)
		require.NoError(t, err)
		require.Len(t, guest, 1)
		assert.Equal(t, 4, guest[0].Quantity)
	})

	t.Run("Watch", func(t *testing.T) {
		s := newTestStore(t)
		updates := s.WatchCart(ctx, "u1")

		first := receive(t, updates)
		require.NoError(t, first.Err)
		assert.Empty(t, first.Value)

		require.NoError(t, s.IncrementCartItem(ctx, newItem("u1", 2)))

		second := receive(t, updates)
		require.NoError(t, second.Err)
		require.Len(t, second.Value, 1)
		assert.Equal(t, 2, second.Value[0].Quantity)
	})
}

func TestStoreWishlist(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)

	item := domain.NewWishlistItem(testProduct("p1", "Red Apple", domain.CategoryFruits))
	item.UserID = "u1"

	added, err := s.ToggleWishlistItem(ctx, item)
	require.NoError(t, err)
	assert.True(t, added)

	items, err := s.WishlistItems(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Red Apple", items[0].ProductName)

	added, err = s.ToggleWishlistItem(ctx, item)
	require.NoError(t, err)
	assert.False(t, added)

	items, err = s.WishlistItems(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = s.ToggleWishlistItem(ctx, domain.WishlistItem{UserID: "u1"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestStoreWatchWishlist(t *testing.T) {
	ctx := t.Context()
	s := newTestStore(t)
	updates := s.WatchWishlist(ctx, "u1")

	first := receive(t, updates)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Value)

	item := domain.NewWishlistItem(testProduct("p1", "Red Apple", domain.CategoryFruits))
	item.UserID = "u1"
	_, err := s.ToggleWishlistItem(ctx, item)
	require.NoError(t, err)

	second := receive(t, updates)
	require.NoError(t, second.Err)
	require.Len(t, second.Value, 1)
	assert.Equal(t, "p1", second.Value[0].ProductID)

	other := item
	other.UserID = "u2"
	_, err = s.ToggleWishlistItem(ctx, other)
	require.NoError(t, err)
	require.NoError(t, s.ClearWishlist(ctx, "u1"))

	third := receive(t, updates)
	require.NoError(t, third.Err)
	assert.Empty(t, third.Value)
}

func TestWatchCancelledReadEndsQuietly(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	for range 50 {
		ctx, cancel := context.WithCancel(ctx)
		updates := watch(ctx, newHub(), "topic", func() (int, error) {
			cancel()
			return 0, ctx.Err()
		})

		select {
		case u, ok := <-updates:
			require.False(t, ok, "unexpected update %+v", u)
		case <-time.After(2 * time.Second):
			t.Fatal("stream not closed")
		}
	}
}
