// Package localstore is the on-device cache: a bbolt file holding product,
// cart and wishlist rows encoded with avro.
//
// Every committed write notifies the live queries watching the touched
// bucket, so observers re-read in commit order.
package localstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	bolt "go.etcd.io/bbolt"
)

var (
	_ port.LocalProducts = (*Store)(nil)
	_ port.LocalCart     = (*Store)(nil)
	_ port.LocalWishlist = (*Store)(nil)
)

var (
	productsBucket = []byte("products")
	cartBucket     = []byte("cart_items")
	wishlistBucket = []byte("wishlist_items")
)

const openTimeout = time.Second

type Store struct {
	db  *bolt.DB
	hub *hub
}

// Open opens or creates the cache file at path.
func Open(path string) (*Store, error) {
	const op = "localstore.Open"

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrLocalStore, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{productsBucket, cartBucket, wishlistBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrLocalStore, err)
	}

	slog.Info("local cache is open", "op", op, "path", path)
	return &Store{db: db, hub: newHub()}, nil
}

func (s *Store) Close() {
	const op = "Store.Close"
	log := slog.With("op", op)

	log.Info("closing local cache...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("local cache is closed")
}

// update runs fn in a write transaction and notifies topics after commit.
func (s *Store) update(
	ctx context.Context, op string, fn func(*bolt.Tx) error, topics ...string,
) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.Update(fn); err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrLocalStore, err)
	}

	for _, topic := range topics {
		s.hub.publish(topic)
	}
	return nil
}

func (s *Store) view(ctx context.Context, op string, fn func(*bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.View(fn); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrLocalStore, err)
	}
	return nil
}

func userKey(user domain.UserID, productID string) []byte {
	return append(userPrefix(user), productID...)
}

func userPrefix(user domain.UserID) []byte {
	return append([]byte(user), 0)
}
