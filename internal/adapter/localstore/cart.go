package localstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/smartmart/internal/core/domain"
	bolt "go.etcd.io/bbolt"
)

func cartTopic(user domain.UserID) string {
	return "cart_items/" + user.String()
}

func (s *Store) CartItems(
	ctx context.Context, user domain.UserID,
) ([]domain.CartItem, error) {
	const op = "Store.CartItems"

	vs := []domain.CartItem{}
	err := s.view(ctx, op, func(tx *bolt.Tx) error {
		prefix := userPrefix(user)
		c := tx.Bucket(cartBucket).Cursor()
		for k, data := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, data = c.Next() {
			item, err := unmarshalCartItem(data)
			if err != nil {
				return err
			}
			vs = append(vs, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vs, nil
}

// IncrementCartItem adds v.Quantity to the row of (v.UserID, v.ProductID)
// or inserts v when there is none. Read and write share one transaction.
func (s *Store) IncrementCartItem(ctx context.Context, v domain.CartItem) error {
	const op = "Store.IncrementCartItem"

	if err := validateCartItem(v); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		b := tx.Bucket(cartBucket)
		key := userKey(v.UserID, v.ProductID)

		item := v
		if data := b.Get(key); data != nil {
			existing, err := unmarshalCartItem(data)
			if err != nil {
				return err
			}
			existing.Quantity += v.Quantity
			item = existing
		} else {
			if item.ID == "" {
				item.ID = uuid.NewString()
			}
			if item.AddedAt.IsZero() {
				item.AddedAt = time.Now().UTC()
			}
		}

		data, err := marshalCartItem(item)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	}, cartTopic(v.UserID))
}

// SetCartQuantity overwrites the quantity of an existing row.
//
// qty <= 0 deletes the row; a missing row is left missing.
func (s *Store) SetCartQuantity(
	ctx context.Context, user domain.UserID, productID string, qty int,
) error {
	const op = "Store.SetCartQuantity"

	if qty <= 0 {
		return s.DeleteCartItem(ctx, user, productID)
	}

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		b := tx.Bucket(cartBucket)
		key := userKey(user, productID)

		data := b.Get(key)
		if data == nil {
			return nil
		}
		item, err := unmarshalCartItem(data)
		if err != nil {
			return err
		}
		item.Quantity = qty

		data, err = marshalCartItem(item)
		if err != nil {
			return err
		}
		return b.Put(key, data)
	}, cartTopic(user))
}

func (s *Store) DeleteCartItem(
	ctx context.Context, user domain.UserID, productID string,
) error {
	const op = "Store.DeleteCartItem"

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Delete(userKey(user, productID))
	}, cartTopic(user))
}

func (s *Store) ClearCart(ctx context.Context, user domain.UserID) error {
	const op = "Store.ClearCart"

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		return deletePrefix(tx.Bucket(cartBucket), userPrefix(user))
	}, cartTopic(user))
}

func (s *Store) WatchCart(
	ctx context.Context, user domain.UserID,
) <-chan domain.Update[[]domain.CartItem] {
	return watch(ctx, s.hub, cartTopic(user), func() ([]domain.CartItem, error) {
		return s.CartItems(ctx, user)
	})
}

func validateCartItem(v domain.CartItem) error {
	switch {
	case v.UserID == "":
		return fmt.Errorf("cart item without user: %w", domain.ErrValidation)
	case v.ProductID == "":
		return fmt.Errorf("cart item without product: %w", domain.ErrValidation)
	case v.Quantity <= 0:
		return fmt.Errorf("cart item quantity %d: %w", v.Quantity, domain.ErrValidation)
	}
	return nil
}

func deletePrefix(b *bolt.Bucket, prefix []byte) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}
