package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.CartAggregator = (*Cart)(nil)

type Cart struct {
	local port.LocalCart
}

func NewCart(local port.LocalCart) Cart {
	return Cart{local}
}

// Items emits the user's cart after every cart mutation. The stream ends
// when ctx is done or the local read fails.
func (s Cart) Items(ctx context.Context, user domain.UserID) <-chan []domain.CartItem {
	const op = "Cart.Items"
	log := slog.With("op", op)

	out := make(chan []domain.CartItem, 1)

	go func() {
		defer close(out)
		for u := range s.local.WatchCart(ctx, userOrGuest(user)) {
			if u.Err != nil {
				log.Error("cart live query failed", "user", user, "err", u.Err)
				return
			}
			items := u.Value
			if items == nil {
				items = []domain.CartItem{}
			}
			if !emit(ctx, out, items) {
				return
			}
		}
	}()

	return out
}

// Total is derived from [Cart.Items] and emits once per items emission.
func (s Cart) Total(ctx context.Context, user domain.UserID) <-chan decimal.Decimal {
	out := make(chan decimal.Decimal, 1)

	go func() {
		defer close(out)
		for items := range s.Items(ctx, user) {
			if !emit(ctx, out, domain.CartTotal(items)) {
				return
			}
		}
	}()

	return out
}

func (s Cart) Snapshot(ctx context.Context, user domain.UserID) (domain.Cart, error) {
	const op = "Cart.Snapshot"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.local.CartItems(ctx, userOrGuest(user))
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return domain.Cart{Items: items, Total: domain.CartTotal(items)}, nil
}

// Add merges item into the existing row for the same product.
func (s Cart) Add(ctx context.Context, user domain.UserID, item domain.CartItem) error {
	const op = "Cart.Add"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if item.ProductID == "" {
		return fmt.Errorf("%s: empty product id: %w", op, domain.ErrValidation)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf(
			"%s: quantity must be positive, got %d: %w",
			op, item.Quantity, domain.ErrValidation,
		)
	}

	item.UserID = userOrGuest(user)
	if err := s.local.IncrementCartItem(ctx, item); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetQuantity removes the row when qty <= 0.
func (s Cart) SetQuantity(
	ctx context.Context, user domain.UserID, productID string, qty int,
) error {
	const op = "Cart.SetQuantity"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.local.SetCartQuantity(ctx, userOrGuest(user), productID, qty)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Cart) Remove(ctx context.Context, user domain.UserID, productID string) error {
	const op = "Cart.Remove"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.local.DeleteCartItem(ctx, userOrGuest(user), productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Cart) Clear(ctx context.Context, user domain.UserID) error {
	const op = "Cart.Clear"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.local.ClearCart(ctx, userOrGuest(user)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
