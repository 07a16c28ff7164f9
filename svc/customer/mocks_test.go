package customer_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/checkoutkit/pkg/billing"
)

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) CreateCustomer(ctx context.Context, req billing.CustomerRequest) (*billing.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Email(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CustomerID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockStore) SetCustomerIDIfAbsent(ctx context.Context, userID, customerID string) (string, error) {
	args := m.Called(ctx, userID, customerID)
	return args.String(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, userID, customerID string) error {
	args := m.Called(ctx, userID, customerID)
	return args.Error(0)
}

type countingRecorder struct {
	created int
	hits    int
	misses  int
}

func (r *countingRecorder) CustomerCreated() { r.created++ }

func (r *countingRecorder) CustomerCacheLookup(hit bool) {
	if hit {
		r.hits++
		return
	}
	r.misses++
}

type creatorFunc func(ctx context.Context, req billing.CustomerRequest) (*billing.Customer, error)

func (f creatorFunc) CreateCustomer(ctx context.Context, req billing.CustomerRequest) (*billing.Customer, error) {
	return f(ctx, req)
}
