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

func wishlistTopic(user domain.UserID) string {
	return "wishlist_items/" + user.String()
}

func (s *Store) WishlistItems(
	ctx context.Context, user domain.UserID,
) ([]domain.WishlistItem, error) {
	const op = "Store.WishlistItems"

	vs := []domain.WishlistItem{}
	err := s.view(ctx, op, func(tx *bolt.Tx) error {
		prefix := userPrefix(user)
		c := tx.Bucket(wishlistBucket).Cursor()
		for k, data := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, data = c.Next() {
			item, err := unmarshalWishlistItem(data)
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

// ToggleWishlistItem removes the row of (v.UserID, v.ProductID) when present
// and inserts v otherwise. It reports whether v was inserted.
func (s *Store) ToggleWishlistItem(
	ctx context.Context, v domain.WishlistItem,
) (bool, error) {
	const op = "Store.ToggleWishlistItem"

	if v.UserID == "" || v.ProductID == "" {
		return false, fmt.Errorf("%s: %w", op, domain.ErrValidation)
	}

	var added bool
	err := s.update(ctx, op, func(tx *bolt.Tx) error {
		b := tx.Bucket(wishlistBucket)
		key := userKey(v.UserID, v.ProductID)

		if b.Get(key) != nil {
			added = false
			return b.Delete(key)
		}

		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		if v.AddedAt.IsZero() {
			v.AddedAt = time.Now().UTC()
		}
		data, err := marshalWishlistItem(v)
		if err != nil {
			return err
		}
		added = true
		return b.Put(key, data)
	}, wishlistTopic(v.UserID))
	return added, err
}

func (s *Store) DeleteWishlistItem(
	ctx context.Context, user domain.UserID, productID string,
) error {
	const op = "Store.DeleteWishlistItem"

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		return tx.Bucket(wishlistBucket).Delete(userKey(user, productID))
	}, wishlistTopic(user))
}

func (s *Store) ClearWishlist(ctx context.Context, user domain.UserID) error {
	const op = "Store.ClearWishlist"

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		return deletePrefix(tx.Bucket(wishlistBucket), userPrefix(user))
	}, wishlistTopic(user))
}

func (s *Store) WatchWishlist(
	ctx context.Context, user domain.UserID,
) <-chan domain.Update[[]domain.WishlistItem] {
	return watch(ctx, s.hub, wishlistTopic(user), func() ([]domain.WishlistItem, error) {
		return s.WishlistItems(ctx, user)
	})
}
