package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/internal/gateway"
	"github.com/FaysilAlshareef/TalabatProject/internal/repository"
	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
)

// --- Mock Repositories ---

type mockRepo[T any] struct {
	mock.Mock
}

func (m *mockRepo[T]) ListBySpec(ctx context.Context, query specification.Query) ([]T, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *mockRepo[T]) FirstBySpec(ctx context.Context, query specification.Query) (*T, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockRepo[T]) CountBySpec(ctx context.Context, query specification.Query) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo[T]) Add(entity *T)    { m.Called(entity) }
func (m *mockRepo[T]) Update(entity *T) { m.Called(entity) }
func (m *mockRepo[T]) Remove(id int64)  { m.Called(id) }

type mockProductRepo struct {
	mockRepo[domain.Product]
}

func (m *mockProductRepo) DecrementStock(id int64, quantity int) { m.Called(id, quantity) }
func (m *mockProductRepo) RestoreStock(id int64, quantity int)   { m.Called(id, quantity) }

// --- Mock UnitOfWork / Store ---

type mockUnitOfWork struct {
	mock.Mock
	products        *mockProductRepo
	brands          *mockRepo[domain.Brand]
	types           *mockRepo[domain.ProductType]
	deliveryMethods *mockRepo[domain.DeliveryMethod]
	orders          *mockRepo[domain.Order]
}

func newMockUnitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{
		products:        new(mockProductRepo),
		brands:          new(mockRepo[domain.Brand]),
		types:           new(mockRepo[domain.ProductType]),
		deliveryMethods: new(mockRepo[domain.DeliveryMethod]),
		orders:          new(mockRepo[domain.Order]),
	}
}

func (m *mockUnitOfWork) Products() repository.ProductRepository                  { return m.products }
func (m *mockUnitOfWork) Brands() repository.Repository[domain.Brand]             { return m.brands }
func (m *mockUnitOfWork) Types() repository.Repository[domain.ProductType]        { return m.types }
func (m *mockUnitOfWork) DeliveryMethods() repository.Repository[domain.DeliveryMethod] {
	return m.deliveryMethods
}
func (m *mockUnitOfWork) Orders() repository.Repository[domain.Order] { return m.orders }

func (m *mockUnitOfWork) Complete(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockStore struct {
	uow *mockUnitOfWork
}

func (m *mockStore) NewUnitOfWork() repository.UnitOfWork { return m.uow }

// --- Mock CartStore ---

type mockCartStore struct {
	mock.Mock
}

func (m *mockCartStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartStore) Put(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	args := m.Called(ctx, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartStore) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// --- Mock Gateway ---

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateIntent(ctx context.Context, amount int64, currency string) (*gateway.Intent, error) {
	args := m.Called(ctx, amount, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Intent), args.Error(1)
}

func (m *mockGateway) UpdateIntent(ctx context.Context, intentID string, amount int64) (*gateway.Intent, error) {
	args := m.Called(ctx, intentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Intent), args.Error(1)
}

// --- Recording Publisher ---

type recordingPublisher struct {
	created         []*domain.Order
	paymentReceived []*domain.Order
	paymentFailed   []*domain.Order
}

func (p *recordingPublisher) OrderCreated(_ context.Context, o *domain.Order) error {
	p.created = append(p.created, o)
	return nil
}

func (p *recordingPublisher) OrderPaymentReceived(_ context.Context, o *domain.Order) error {
	p.paymentReceived = append(p.paymentReceived, o)
	return nil
}

func (p *recordingPublisher) OrderPaymentFailed(_ context.Context, o *domain.Order) error {
	p.paymentFailed = append(p.paymentFailed, o)
	return nil
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// specWhere matches a specification whose first condition filters the given
// column for the given value.
func specWhere(column string, value any) any {
	return mock.MatchedBy(func(q specification.Query) bool {
		for _, c := range q.Conditions() {
			if c.Column == column && c.Value == value {
				return true
			}
		}
		return false
	})
}
