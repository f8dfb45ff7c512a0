package localstore

import (
	"fmt"
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/pkg/schema"
	"github.com/shopspring/decimal"
)

var (
	encodeProduct  = schema.AvroEncodeFn(schema.ProductV1Avro())
	decodeProduct  = schema.AvroDecodeFn(schema.ProductV1Avro())
	encodeCartItem = schema.AvroEncodeFn(schema.CartItemV1Avro())
	decodeCartItem = schema.AvroDecodeFn(schema.CartItemV1Avro())
	encodeWishItem = schema.AvroEncodeFn(schema.WishlistItemV1Avro())
	decodeWishItem = schema.AvroDecodeFn(schema.WishlistItemV1Avro())
)

func marshalProduct(v domain.Product) ([]byte, error) {
	return encodeProduct(schema.ProductV1{
		ProductID:    v.ID,
		Name:         v.Name,
		Description:  v.Description,
		Price:        v.Price.String(),
		Category:     v.Category.String(),
		ImageURL:     v.ImageURL,
		Rating:       v.Rating,
		Stock:        int64(v.Stock),
		LastModified: toMillis(v.LastModified),
	})
}

func unmarshalProduct(data []byte) (domain.Product, error) {
	var s schema.ProductV1
	if err := decodeProduct(data, &s); err != nil {
		return domain.Product{}, err
	}
	price, err := decimal.NewFromString(s.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %q price: %w", s.ProductID, err)
	}
	return domain.Product{
		ID:           s.ProductID,
		Name:         s.Name,
		Description:  s.Description,
		Price:        price,
		Category:     domain.ParseCategory(s.Category),
		ImageURL:     s.ImageURL,
		Rating:       s.Rating,
		Stock:        int(s.Stock),
		LastModified: fromMillis(s.LastModified),
	}, nil
}

func marshalCartItem(v domain.CartItem) ([]byte, error) {
	return encodeCartItem(schema.CartItemV1{
		CartItemID:   v.ID,
		ProductID:    v.ProductID,
		ProductName:  v.ProductName,
		ProductImage: v.ProductImage,
		UnitPrice:    v.UnitPrice.String(),
		Quantity:     v.Quantity,
		UserID:       v.UserID.String(),
		AddedAt:      toMillis(v.AddedAt),
	})
}

func unmarshalCartItem(data []byte) (domain.CartItem, error) {
	var s schema.CartItemV1
	if err := decodeCartItem(data, &s); err != nil {
		return domain.CartItem{}, err
	}
	price, err := decimal.NewFromString(s.UnitPrice)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("cart item %q price: %w", s.CartItemID, err)
	}
	return domain.CartItem{
		ID:           s.CartItemID,
		ProductID:    s.ProductID,
		ProductName:  s.ProductName,
		ProductImage: s.ProductImage,
		UnitPrice:    price,
		Quantity:     s.Quantity,
		UserID:       domain.UserID(s.UserID),
		AddedAt:      fromMillis(s.AddedAt),
	}, nil
}

func marshalWishlistItem(v domain.WishlistItem) ([]byte, error) {
	return encodeWishItem(schema.WishlistItemV1{
		WishlistItemID: v.ID,
		ProductID:      v.ProductID,
		ProductName:    v.ProductName,
		ProductImage:   v.ProductImage,
		UnitPrice:      v.UnitPrice.String(),
		UserID:         v.UserID.String(),
		AddedAt:        toMillis(v.AddedAt),
	})
}

func unmarshalWishlistItem(data []byte) (domain.WishlistItem, error) {
	var s schema.WishlistItemV1
	if err := decodeWishItem(data, &s); err != nil {
		return domain.WishlistItem{}, err
	}
	price, err := decimal.NewFromString(s.UnitPrice)
	if err != nil {
		return domain.WishlistItem{}, fmt.Errorf("wishlist item %q price: %w", s.WishlistItemID, err)
	}
	return domain.WishlistItem{
		ID:           s.WishlistItemID,
		ProductID:    s.ProductID,
		ProductName:  s.ProductName,
		ProductImage: s.ProductImage,
		UnitPrice:    price,
		UserID:       domain.UserID(s.UserID),
		AddedAt:      fromMillis(s.AddedAt),
	}, nil
}

// zero time is stored as 0
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
