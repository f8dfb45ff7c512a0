package service

import (
	"context"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"github.com/stretchr/testify/mock"
)

type MockLocalProducts struct {
	mock.Mock
}

func (m *MockLocalProducts) Product(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockLocalProducts) Products(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	vs, _ := args.Get(0).([]domain.Product)
	return vs, args.Error(1)
}

func (m *MockLocalProducts) UpsertProducts(ctx context.Context, vs []domain.Product) error {
	return m.Called(ctx, vs).Error(0)
}

func (m *MockLocalProducts) DeleteAllProducts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLocalProducts) WatchProducts(
	ctx context.Context, q domain.ProductQuery,
) <-chan domain.Update[[]domain.Product] {
	args := m.Called(ctx, q)
	return args.Get(0).(<-chan domain.Update[[]domain.Product])
}

type MockRemoteCatalog struct {
	mock.Mock
}

func (m *MockRemoteCatalog) GetAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	vs, _ := args.Get(0).([]domain.Product)
	return vs, args.Error(1)
}

func (m *MockRemoteCatalog) GetWhere(
	ctx context.Context, field, value string,
) ([]domain.Product, error) {
	args := m.Called(ctx, field, value)
	vs, _ := args.Get(0).([]domain.Product)
	return vs, args.Error(1)
}

func (m *MockRemoteCatalog) GetWhereNameRange(
	ctx context.Context, prefix string,
) ([]domain.Product, error) {
	args := m.Called(ctx, prefix)
	vs, _ := args.Get(0).([]domain.Product)
	return vs, args.Error(1)
}

func (m *MockRemoteCatalog) GetByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockRemoteCatalog) Add(ctx context.Context, p domain.Product) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockRemoteCatalog) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRemoteCatalog) BatchCommit(ctx context.Context, ops []port.CatalogOp) error {
	return m.Called(ctx, ops).Error(0)
}

type MockSyncRecorder struct {
	mock.Mock
}

func (m *MockSyncRecorder) RecordRefresh(n int, err error) {
	m.Called(n, err)
}

func (m *MockSyncRecorder) RecordReset(err error) {
	m.Called(err)
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignIn(
	ctx context.Context, email, password string,
) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockIdentityProvider) SignUp(
	ctx context.Context, email, password, name string,
) (domain.Session, error) {
	args := m.Called(ctx, email, password, name)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockIdentityProvider) SignInWithCredential(
	ctx context.Context, idToken string,
) (domain.Session, error) {
	args := m.Called(ctx, idToken)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockIdentityProvider) SendPasswordResetEmail(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockIdentityProvider) CurrentSession(
	ctx context.Context, token string,
) (domain.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Session), args.Error(1)
}

type MockUsersStorage struct {
	mock.Mock
}

func (m *MockUsersStorage) PutUser(ctx context.Context, u domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUsersStorage) GetUser(ctx context.Context, id domain.UserID) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockNotificationPresenter struct {
	mock.Mock
}

func (m *MockNotificationPresenter) Present(
	ctx context.Context, ch domain.NotificationChannel, n domain.Notification,
) error {
	return m.Called(ctx, ch, n).Error(0)
}
