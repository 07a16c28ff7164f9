package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/billing"
	"github.com/dmitrymomot/checkoutkit/pkg/callable"
	"github.com/dmitrymomot/checkoutkit/pkg/jwt"
	"github.com/dmitrymomot/checkoutkit/pkg/metrics"
	"github.com/dmitrymomot/checkoutkit/svc/checkout"
	"github.com/dmitrymomot/checkoutkit/svc/customer"
	"github.com/dmitrymomot/checkoutkit/svc/identity"
)

type fixture struct {
	store    *customer.MemoryStore
	dir      *MockDirectory
	provider *MockProvider
	metrics  *metrics.Metrics
	svc      *checkout.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    customer.NewMemoryStore(customer.Config{}),
		dir:      &MockDirectory{},
		provider: &MockProvider{},
		metrics:  metrics.New(),
	}
	resolver := customer.NewResolver(f.store, f.dir, f.provider, customer.WithMetrics(f.metrics))
	initiator := checkout.NewInitiator(f.provider, testConfig)
	f.svc = checkout.NewService(resolver, initiator, checkout.WithMetrics(f.metrics))
	return f
}

func (f *fixture) assertNoSideEffects(t *testing.T) {
	t.Helper()
	f.dir.AssertNotCalled(t, "Email", mock.Anything, mock.Anything)
	f.provider.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	f.provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

// counterValue sums a counter family across its label sets.
func counterValue(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func requireKind(t *testing.T, err error, kind callable.Kind) *callable.Error {
	t.Helper()
	var ce *callable.Error
	require.True(t, errors.As(err, &ce), "expected *callable.Error, got %T", err)
	assert.Equal(t, kind, ce.Kind)
	return ce
}

func TestCreateCheckoutSession_Unauthenticated(t *testing.T) {
	t.Parallel()

	for _, caller := range []*identity.Caller{nil, {}} {
		f := newFixture(t)
		resp, err := f.svc.CreateCheckoutSession(context.Background(), caller, checkout.Request{PriceID: "price_basic"})
		assert.Nil(t, resp)
		ce := requireKind(t, err, callable.KindUnauthenticated)
		assert.Equal(t, "The function must be called while authenticated.", ce.Message)
		f.assertNoSideEffects(t)

		_, ok := f.store.Document("u1")
		assert.False(t, ok)
		assert.Equal(t, 1.0, counterValue(t, f.metrics, "checkout_sessions_total"))
	}
}

func TestCreateCheckoutSession_MissingPriceID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{PriceID: ""})
	assert.Nil(t, resp)
	ce := requireKind(t, err, callable.KindInvalidArgument)
	assert.Equal(t, "The function must be called with a priceId.", ce.Message)
	f.assertNoSideEffects(t)
}

func TestCreateCheckoutSession_InvalidRedirect(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{
		PriceID:    "price_basic",
		SuccessURL: "ftp://example.com",
	})
	requireKind(t, err, callable.KindInvalidArgument)
	f.assertNoSideEffects(t)
}

func TestCreateCheckoutSession_ExistingCustomer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put("u1", map[string]any{"stripeId": "cus_123"})
	f.provider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(r billing.CheckoutRequest) bool {
		return r.CustomerID == "cus_123" && r.PriceID == "price_basic"
	})).Return(&billing.CheckoutSession{ID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil).Once()

	resp, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{PriceID: "price_basic"})
	require.NoError(t, err)
	assert.Equal(t, &checkout.Response{SessionID: "cs_1", URL: "https://pay.example.com/cs_1"}, resp)

	f.provider.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	f.dir.AssertNotCalled(t, "Email", mock.Anything, mock.Anything)
	f.provider.AssertExpectations(t)
}

func TestCreateCheckoutSession_NewCustomerWithFallbackURLs(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put("u1", map[string]any{"displayName": "Ada"})
	f.dir.On("Email", mock.Anything, "u1").Return("a@b.com", nil).Once()
	f.provider.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(r billing.CustomerRequest) bool {
		return r.Email == "a@b.com" && r.UserID == "u1"
	})).Return(&billing.Customer{ID: "cus_new"}, nil).Once()
	f.provider.On("CreateCheckoutSession", mock.Anything, billing.CheckoutRequest{
		CustomerID: "cus_new",
		PriceID:    "price_basic",
		SuccessURL: testConfig.SuccessURL,
		CancelURL:  testConfig.CancelURL,
	}).Return(&billing.CheckoutSession{ID: "cs_9", URL: "https://pay.example.com/cs_9"}, nil).Once()

	resp, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{PriceID: "price_basic"})
	require.NoError(t, err)
	assert.Equal(t, "cs_9", resp.SessionID)
	assert.Equal(t, "https://pay.example.com/cs_9", resp.URL)

	doc, _ := f.store.Document("u1")
	assert.Equal(t, map[string]any{"displayName": "Ada", "stripeId": "cus_new"}, doc)

	f.provider.AssertExpectations(t)
	f.dir.AssertExpectations(t)
	assert.Equal(t, 1.0, counterValue(t, f.metrics, "checkout_customers_created_total"))
}

func TestCreateCheckoutSession_ProviderRejects(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.store.Put("u1", map[string]any{"stripeId": "cus_123"})
	f.provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, &billing.ProviderError{Provider: "stripe", Code: "card_declined", Message: "card declined"}).Once()

	resp, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{PriceID: "price_basic"})
	assert.Nil(t, resp)
	ce := requireKind(t, err, callable.KindInternal)
	assert.Contains(t, ce.Message, "card declined")
	assert.ErrorIs(t, err, checkout.ErrUpstream)
}

func TestCreateCheckoutSession_CustomerCreationRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.dir.On("Email", mock.Anything, "u1").Return("a@b.com", nil)
	f.provider.On("CreateCustomer", mock.Anything, mock.Anything).
		Return(nil, &billing.ProviderError{Provider: "stripe", Message: "Invalid email address: a@b.com"}).Once()

	_, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{PriceID: "price_basic"})
	ce := requireKind(t, err, callable.KindInternal)
	assert.Equal(t, "Invalid email address: a@b.com", ce.Message)
	assert.ErrorIs(t, err, customer.ErrUpstream)
	f.provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateCheckoutSession_InternalCarriesUpstreamMessage(t *testing.T) {
	t.Parallel()

	t.Run("directory failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.dir.On("Email", mock.Anything, "u1").Return("", errors.New("directory unavailable"))

		_, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{PriceID: "price_basic"})
		ce := requireKind(t, err, callable.KindInternal)
		assert.Contains(t, ce.Message, "directory unavailable")
		assert.ErrorIs(t, err, customer.ErrDirectory)
	})

	t.Run("missing identity record", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.dir.On("Email", mock.Anything, "u1").Return("", identity.ErrUserNotFound)

		_, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{PriceID: "price_basic"})
		ce := requireKind(t, err, callable.KindInternal)
		assert.Contains(t, ce.Message, "user not found")
		assert.NotContains(t, ce.Message, "\n")
		assert.ErrorIs(t, err, customer.ErrNotFound)
	})

	t.Run("provider returned no checkout url", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.store.Put("u1", map[string]any{"stripeId": "cus_123"})
		f.provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, billing.ErrNoCheckoutURL)

		_, err := f.svc.CreateCheckoutSession(context.Background(), &identity.Caller{UserID: "u1"}, checkout.Request{PriceID: "price_basic"})
		ce := requireKind(t, err, callable.KindInternal)
		assert.Contains(t, ce.Message, billing.ErrNoCheckoutURL.Error())
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	tokens, err := jwt.New("test-signing-key")
	require.NoError(t, err)

	f := newFixture(t)
	f.store.Put("u1", map[string]any{"stripeId": "cus_123"})
	f.provider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&billing.CheckoutSession{ID: "cs_1", URL: "https://pay.example.com/cs_1"}, nil)

	srv := httptest.NewServer(identity.Middleware(tokens, nil)(f.svc.Handler()))
	t.Cleanup(srv.Close)

	post := func(t *testing.T, token, body string) (int, map[string]json.RawMessage) {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()

		var out map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
		return res.StatusCode, out
	}

	token, err := tokens.Generate(jwt.Claims{Subject: "u1", ExpiresAt: time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)

	code, out := post(t, token, `{"data":{"priceId":"price_basic"}}`)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"sessionId":"cs_1","url":"https://pay.example.com/cs_1"}`, string(out["result"]))

	code, out = post(t, "", `{"data":{"priceId":"price_basic"}}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"status":"UNAUTHENTICATED","message":"The function must be called while authenticated."}`, string(out["error"]))

	code, out = post(t, token, `{"data":{}}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"status":"INVALID_ARGUMENT","message":"The function must be called with a priceId."}`, string(out["error"]))

	// Envelope errors are reported before the caller is considered.
	code, out = post(t, "", `{"data":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"status":"INVALID_ARGUMENT","message":"Request body is not valid JSON."}`, string(out["error"]))
}
