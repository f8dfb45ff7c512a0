package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
)

var _ port.Wishlist = (*Wishlist)(nil)

type Wishlist struct {
	local port.LocalWishlist
}

func NewWishlist(local port.LocalWishlist) Wishlist {
	return Wishlist{local}
}

func (s Wishlist) Items(
	ctx context.Context, user domain.UserID,
) ([]domain.WishlistItem, error) {
	const op = "Wishlist.Items"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.local.WishlistItems(ctx, userOrGuest(user))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return items, nil
}

// Watch emits the user's wishlist after every wishlist mutation. The
// stream ends when ctx is done or the local read fails.
func (s Wishlist) Watch(
	ctx context.Context, user domain.UserID,
) <-chan []domain.WishlistItem {
	const op = "Wishlist.Watch"
	log := slog.With("op", op)

	out := make(chan []domain.WishlistItem, 1)

	go func() {
		defer close(out)
		for u := range s.local.WatchWishlist(ctx, userOrGuest(user)) {
			if u.Err != nil {
				log.Error("wishlist live query failed", "user", user, "err", u.Err)
				return
			}
			items := u.Value
			if items == nil {
				items = []domain.WishlistItem{}
			}
			if !emit(ctx, out, items) {
				return
			}
		}
	}()

	return out
}

// Toggle adds item when absent and removes it otherwise.
func (s Wishlist) Toggle(
	ctx context.Context, user domain.UserID, item domain.WishlistItem,
) (bool, error) {
	const op = "Wishlist.Toggle"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if item.ProductID == "" {
		return false, fmt.Errorf("%s: empty product id: %w", op, domain.ErrValidation)
	}

	item.UserID = userOrGuest(user)
	added, err := s.local.ToggleWishlistItem(ctx, item)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return added, nil
}

func (s Wishlist) Remove(
	ctx context.Context, user domain.UserID, productID string,
) error {
	const op = "Wishlist.Remove"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.local.DeleteWishlistItem(ctx, userOrGuest(user), productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Wishlist) Clear(ctx context.Context, user domain.UserID) error {
	const op = "Wishlist.Clear"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.local.ClearWishlist(ctx, userOrGuest(user)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
