package port

import (
	"context"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/pkg/resource"
	"github.com/shopspring/decimal"
)

////////////////////////////////////////////////////////
///////////////        INBOUND          ////////////////
////////////////////////////////////////////////////////

type CatalogObserver interface {
	ObserveAll(context.Context) <-chan resource.Resource[[]domain.Product]
	Observe(context.Context, domain.ProductQuery) <-chan resource.Resource[[]domain.Product]
	ByCategory(context.Context, domain.Category) <-chan resource.Resource[[]domain.Product]
}

type CatalogReader interface {
	GetByID(ctx context.Context, id string) (domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

type CatalogSyncer interface {
	Refresh(context.Context) error
	FullReset(context.Context) error
}

type Catalog interface {
	CatalogObserver
	CatalogReader
	CatalogSyncer
}

type CartAggregator interface {
	Items(context.Context, domain.UserID) <-chan []domain.CartItem
	Total(context.Context, domain.UserID) <-chan decimal.Decimal
	Snapshot(context.Context, domain.UserID) (domain.Cart, error)
	Add(context.Context, domain.UserID, domain.CartItem) error
	SetQuantity(ctx context.Context, user domain.UserID, productID string, qty int) error
	Remove(ctx context.Context, user domain.UserID, productID string) error
	Clear(context.Context, domain.UserID) error
}

type Wishlist interface {
	Items(context.Context, domain.UserID) ([]domain.WishlistItem, error)
	Watch(context.Context, domain.UserID) <-chan []domain.WishlistItem
	Toggle(context.Context, domain.UserID, domain.WishlistItem) (added bool, err error)
	Remove(ctx context.Context, user domain.UserID, productID string) error
	Clear(context.Context, domain.UserID) error
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignUp(ctx context.Context, email, password, confirm, name string) (domain.SignInResult, error)
	SignInFederated(ctx context.Context, idToken string) (domain.SignInResult, error)
	SignOut(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, email string) error
	Session(ctx context.Context, token string) (domain.Session, error)
	Profile(ctx context.Context, id domain.UserID) (domain.User, error)
}

type NotificationRouter interface {
	Route(context.Context, domain.Notification) error
}

////////////////////////////////////////////////////////
///////////////        OUTBOUND         ////////////////
////////////////////////////////////////////////////////

type LocalProducts interface {
	Product(ctx context.Context, id string) (domain.Product, error)
	Products(context.Context, domain.ProductQuery) ([]domain.Product, error)
	UpsertProducts(context.Context, []domain.Product) error
	DeleteAllProducts(context.Context) error
	WatchProducts(context.Context, domain.ProductQuery) <-chan domain.Update[[]domain.Product]
}

type LocalCart interface {
	CartItems(context.Context, domain.UserID) ([]domain.CartItem, error)
	IncrementCartItem(context.Context, domain.CartItem) error
	SetCartQuantity(ctx context.Context, user domain.UserID, productID string, qty int) error
	DeleteCartItem(ctx context.Context, user domain.UserID, productID string) error
	ClearCart(context.Context, domain.UserID) error
	WatchCart(context.Context, domain.UserID) <-chan domain.Update[[]domain.CartItem]
}

type LocalWishlist interface {
	WishlistItems(context.Context, domain.UserID) ([]domain.WishlistItem, error)
	ToggleWishlistItem(context.Context, domain.WishlistItem) (added bool, err error)
	DeleteWishlistItem(ctx context.Context, user domain.UserID, productID string) error
	ClearWishlist(context.Context, domain.UserID) error
	WatchWishlist(context.Context, domain.UserID) <-chan domain.Update[[]domain.WishlistItem]
}

// A CatalogOp is one write of a remote batch.
type CatalogOp struct {
	Delete  bool
	ID      string
	Product domain.Product
}

type RemoteCatalog interface {
	GetAll(context.Context) ([]domain.Product, error)
	GetWhere(ctx context.Context, field, value string) ([]domain.Product, error)
	GetWhereNameRange(ctx context.Context, prefix string) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (domain.Product, error)
	Add(context.Context, domain.Product) (id string, err error)
	Delete(ctx context.Context, id string) error
	BatchCommit(context.Context, []CatalogOp) error
}

type UsersStorage interface {
	PutUser(context.Context, domain.User) error
	GetUser(context.Context, domain.UserID) (domain.User, error)
}

type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignUp(ctx context.Context, email, password, name string) (domain.Session, error)
	SignInWithCredential(ctx context.Context, idToken string) (domain.Session, error)
	SignOut(ctx context.Context, token string) error
	SendPasswordResetEmail(ctx context.Context, email string) error
	CurrentSession(ctx context.Context, token string) (domain.Session, error)
}

type NotificationPresenter interface {
	Present(context.Context, domain.NotificationChannel, domain.Notification) error
}

type SyncRecorder interface {
	RecordRefresh(nProducts int, err error)
	RecordReset(err error)
}
