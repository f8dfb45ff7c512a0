package localstore

import (
	"context"
	"fmt"

	"github.com/niksmo/smartmart/internal/core/domain"
	bolt "go.etcd.io/bbolt"
)

const productsTopic = "products"

func (s *Store) Product(ctx context.Context, id string) (domain.Product, error) {
	const op = "Store.Product"

	var v domain.Product
	err := s.view(ctx, op, func(tx *bolt.Tx) error {
		data := tx.Bucket(productsBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("product %q: %w", id, domain.ErrNotFound)
		}
		p, err := unmarshalProduct(data)
		if err != nil {
			return err
		}
		v = p
		return nil
	})
	return v, err
}

// Products returns the rows matching q in id order.
func (s *Store) Products(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "Store.Products"

	vs := []domain.Product{}
	err := s.view(ctx, op, func(tx *bolt.Tx) error {
		return tx.Bucket(productsBucket).ForEach(func(_, data []byte) error {
			p, err := unmarshalProduct(data)
			if err != nil {
				return err
			}
			if q.Match(p) {
				vs = append(vs, p)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return vs, nil
}

// UpsertProducts inserts or replaces every product by id in one transaction.
//
// Rows absent from vs are kept.
func (s *Store) UpsertProducts(ctx context.Context, vs []domain.Product) error {
	const op = "Store.UpsertProducts"

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		b := tx.Bucket(productsBucket)
		for _, v := range vs {
			if v.ID == "" {
				return fmt.Errorf("product %q without id: %w", v.Name, domain.ErrValidation)
			}
			data, err := marshalProduct(v)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(v.ID), data); err != nil {
				return err
			}
		}
		return nil
	}, productsTopic)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	const op = "Store.DeleteProduct"

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		return tx.Bucket(productsBucket).Delete([]byte(id))
	}, productsTopic)
}

// DeleteProductsWhere removes every product for which pred is true
// and returns how many were removed.
func (s *Store) DeleteProductsWhere(
	ctx context.Context, pred func(domain.Product) bool,
) (int, error) {
	const op = "Store.DeleteProductsWhere"

	var n int
	err := s.update(ctx, op, func(tx *bolt.Tx) error {
		n = 0
		b := tx.Bucket(productsBucket)
		var keys [][]byte
		err := b.ForEach(func(k, data []byte) error {
			p, err := unmarshalProduct(data)
			if err != nil {
				return err
			}
			if pred(p) {
				keys = append(keys, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = len(keys)
		return nil
	}, productsTopic)
	return n, err
}

func (s *Store) DeleteAllProducts(ctx context.Context) error {
	const op = "Store.DeleteAllProducts"

	return s.update(ctx, op, func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(productsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(productsBucket)
		return err
	}, productsTopic)
}

// WatchProducts is a live query over the products matching q.
func (s *Store) WatchProducts(
	ctx context.Context, q domain.ProductQuery,
) <-chan domain.Update[[]domain.Product] {
	return watch(ctx, s.hub, productsTopic, func() ([]domain.Product, error) {
		return s.Products(ctx, q)
	})
}
