package httphandler

import (
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	statusLoading = "loading"
	statusSuccess = "success"
	statusError   = "error"
)

type (
	Envelope struct {
		Status  string     `json:"status"`
		Data    any        `json:"data,omitempty"`
		Error   *ErrorBody `json:"error,omitempty"`
		Warning *ErrorBody `json:"warning,omitempty"`
	}

	ErrorBody struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}
)

type (
	Product struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		Price        decimal.Decimal `json:"price"`
		Category     string          `json:"category"`
		ImageURL     string          `json:"imageUrl"`
		Rating       float64         `json:"rating"`
		Stock        int             `json:"stock"`
		LastModified int64           `json:"lastModified"`
	}

	CartItem struct {
		ID           string          `json:"id"`
		ProductID    string          `json:"productId"`
		ProductName  string          `json:"productName"`
		ProductImage string          `json:"productImage"`
		UnitPrice    decimal.Decimal `json:"unitPrice"`
		Quantity     int             `json:"quantity"`
		Subtotal     decimal.Decimal `json:"subtotal"`
		AddedAt      time.Time       `json:"addedAt"`
	}

	Cart struct {
		Items []CartItem      `json:"items"`
		Total decimal.Decimal `json:"total"`
	}

	WishlistItem struct {
		ID           string          `json:"id"`
		ProductID    string          `json:"productId"`
		ProductName  string          `json:"productName"`
		ProductImage string          `json:"productImage"`
		UnitPrice    decimal.Decimal `json:"unitPrice"`
		AddedAt      time.Time       `json:"addedAt"`
	}

	WishlistToggle struct {
		Added bool `json:"added"`
	}
)

type (
	AddCartItemRequest struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}

	SetQuantityRequest struct {
		Quantity int `json:"quantity"`
	}

	SignInRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	SignUpRequest struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	FederatedRequest struct {
		IDToken string `json:"idToken"`
	}

	ResetPasswordRequest struct {
		Email string `json:"email"`
	}

	Session struct {
		Token     string    `json:"token,omitempty"`
		UserID    string    `json:"userId"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		ExpiresAt time.Time `json:"expiresAt"`
	}

	User struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Email           string    `json:"email"`
		ProfileImageURL string    `json:"profileImageUrl"`
		PhoneNumber     string    `json:"phoneNumber"`
		CreatedAt       time.Time `json:"createdAt"`
	}

	Me struct {
		Session Session `json:"session"`
		Profile *User   `json:"profile,omitempty"`
	}
)

func toProduct(v domain.Product) Product {
	var lm int64
	if !v.LastModified.IsZero() {
		lm = v.LastModified.UnixMilli()
	}
	return Product{
		ID:           v.ID,
		Name:         v.Name,
		Description:  v.Description,
		Price:        v.Price,
		Category:     v.Category.String(),
		ImageURL:     v.ImageURL,
		Rating:       v.Rating,
		Stock:        v.Stock,
		LastModified: lm,
	}
}

func toProducts(vs []domain.Product) []Product {
	out := make([]Product, len(vs))
	for i, v := range vs {
		out[i] = toProduct(v)
	}
	return out
}

func toCart(items []domain.CartItem) Cart {
	out := Cart{
		Items: make([]CartItem, len(items)),
		Total: domain.CartTotal(items),
	}
	for i, v := range items {
		out.Items[i] = CartItem{
			ID:           v.ID,
			ProductID:    v.ProductID,
			ProductName:  v.ProductName,
			ProductImage: v.ProductImage,
			UnitPrice:    v.UnitPrice,
			Quantity:     v.Quantity,
			Subtotal:     v.Subtotal(),
			AddedAt:      v.AddedAt,
		}
	}
	return out
}

func toWishlist(items []domain.WishlistItem) []WishlistItem {
	out := make([]WishlistItem, len(items))
	for i, v := range items {
		out[i] = WishlistItem{
			ID:           v.ID,
			ProductID:    v.ProductID,
			ProductName:  v.ProductName,
			ProductImage: v.ProductImage,
			UnitPrice:    v.UnitPrice,
			AddedAt:      v.AddedAt,
		}
	}
	return out
}

func toSession(v domain.Session) Session {
	return Session{
		Token:     v.Token,
		UserID:    v.UserID.String(),
		Name:      v.Name,
		Email:     v.Email,
		ExpiresAt: v.ExpiresAt,
	}
}

func toUser(v domain.User) User {
	return User{
		ID:              v.ID.String(),
		Name:            v.Name,
		Email:           v.Email,
		ProfileImageURL: v.ProfileImageURL,
		PhoneNumber:     v.PhoneNumber,
		CreatedAt:       v.CreatedAt,
	}
}
