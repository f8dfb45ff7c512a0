package httphandler

import (
	"context"
	"time"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/pkg/resource"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ObserveAll(
	ctx context.Context,
) <-chan resource.Resource[[]domain.Product] {
	return m.Called(ctx).Get(0).(<-chan resource.Resource[[]domain.Product])
}

func (m *MockCatalog) Observe(
	ctx context.Context, q domain.ProductQuery,
) <-chan resource.Resource[[]domain.Product] {
	return m.Called(ctx, q).Get(0).(<-chan resource.Resource[[]domain.Product])
}

func (m *MockCatalog) ByCategory(
	ctx context.Context, c domain.Category,
) <-chan resource.Resource[[]domain.Product] {
	return m.Called(ctx, c).Get(0).(<-chan resource.Resource[[]domain.Product])
}

func (m *MockCatalog) GetByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalog) Search(ctx context.Context, query string) ([]domain.Product, error) {
	args := m.Called(ctx, query)
	vs, _ := args.Get(0).([]domain.Product)
	return vs, args.Error(1)
}

func (m *MockCatalog) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCatalog) FullReset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockCart struct {
	mock.Mock
}

func (m *MockCart) Items(ctx context.Context, user domain.UserID) <-chan []domain.CartItem {
	return m.Called(ctx, user).Get(0).(<-chan []domain.CartItem)
}

func (m *MockCart) Total(ctx context.Context, user domain.UserID) <-chan decimal.Decimal {
	return m.Called(ctx, user).Get(0).(<-chan decimal.Decimal)
}

func (m *MockCart) Snapshot(ctx context.Context, user domain.UserID) (domain.Cart, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockCart) Add(ctx context.Context, user domain.UserID, item domain.CartItem) error {
	return m.Called(ctx, user, item).Error(0)
}

func (m *MockCart) SetQuantity(
	ctx context.Context, user domain.UserID, productID string, qty int,
) error {
	return m.Called(ctx, user, productID, qty).Error(0)
}

func (m *MockCart) Remove(ctx context.Context, user domain.UserID, productID string) error {
	return m.Called(ctx, user, productID).Error(0)
}

func (m *MockCart) Clear(ctx context.Context, user domain.UserID) error {
	return m.Called(ctx, user).Error(0)
}

type MockWishlist struct {
	mock.Mock
}

func (m *MockWishlist) Items(
	ctx context.Context, user domain.UserID,
) ([]domain.WishlistItem, error) {
	args := m.Called(ctx, user)
	vs, _ := args.Get(0).([]domain.WishlistItem)
	return vs, args.Error(1)
}

func (m *MockWishlist) Watch(
	ctx context.Context, user domain.UserID,
) <-chan []domain.WishlistItem {
	return m.Called(ctx, user).Get(0).(<-chan []domain.WishlistItem)
}

func (m *MockWishlist) Toggle(
	ctx context.Context, user domain.UserID, item domain.WishlistItem,
) (bool, error) {
	args := m.Called(ctx, user, item)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlist) Remove(ctx context.Context, user domain.UserID, productID string) error {
	return m.Called(ctx, user, productID).Error(0)
}

func (m *MockWishlist) Clear(ctx context.Context, user domain.UserID) error {
	return m.Called(ctx, user).Error(0)
}

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) SignIn(
	ctx context.Context, email, password string,
) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockAuthenticator) SignUp(
	ctx context.Context, email, password, confirm, name string,
) (domain.SignInResult, error) {
	args := m.Called(ctx, email, password, confirm, name)
	return args.Get(0).(domain.SignInResult), args.Error(1)
}

func (m *MockAuthenticator) SignInFederated(
	ctx context.Context, idToken string,
) (domain.SignInResult, error) {
	args := m.Called(ctx, idToken)
	return args.Get(0).(domain.SignInResult), args.Error(1)
}

func (m *MockAuthenticator) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthenticator) ResetPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthenticator) Session(ctx context.Context, token string) (domain.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockAuthenticator) Profile(ctx context.Context, id domain.UserID) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type fakeRecorder struct {
	method, endpoint string
	status           int
}

func (r *fakeRecorder) RecordRequest(method, endpoint string, status int, _ time.Duration) {
	r.method, r.endpoint, r.status = method, endpoint, status
}
