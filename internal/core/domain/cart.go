package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestUserID owns the cart and wishlist of an unauthenticated client.
const GuestUserID UserID = "guest"

type UserID string

func (id UserID) String() string {
	return string(id)
}

// A CartItem references a product by id.
//
// ProductName, ProductImage and UnitPrice are copies taken when the item
// was first added.
type CartItem struct {
	ID           string
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	Quantity     int
	UserID       UserID
	AddedAt      time.Time
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCartItem captures the display fields of p.
func NewCartItem(p Product, quantity int) CartItem {
	return CartItem{
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductImage: p.ImageURL,
		UnitPrice:    p.Price,
		Quantity:     quantity,
	}
}

type Cart struct {
	Items []CartItem
	Total decimal.Decimal
}

// CartTotal sums unit price times quantity.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type WishlistItem struct {
	ID           string
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	UserID       UserID
	AddedAt      time.Time
}

func NewWishlistItem(p Product) WishlistItem {
	return WishlistItem{
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductImage: p.ImageURL,
		UnitPrice:    p.Price,
	}
}
