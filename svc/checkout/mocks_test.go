package checkout_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/checkoutkit/pkg/billing"
)

// MockProvider implements billing.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateCustomer(ctx context.Context, req billing.CustomerRequest) (*billing.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Customer), args.Error(1)
}

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CheckoutSession), args.Error(1)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Email(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}
