package customer_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/billing"
	"github.com/dmitrymomot/checkoutkit/svc/customer"
	"github.com/dmitrymomot/checkoutkit/svc/identity"
)

func TestResolver_WarmPath(t *testing.T) {
	t.Parallel()

	store := customer.NewMemoryStore(customer.Config{})
	store.Put("u1", map[string]any{"stripeId": "cus_123", "displayName": "Ada"})

	creator := &MockCreator{}
	dir := &MockDirectory{}
	r := customer.NewResolver(store, dir, creator)

	id, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "cus_123", id)

	creator.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	dir.AssertNotCalled(t, "Email", mock.Anything, mock.Anything)
}

func TestResolver_ColdPath(t *testing.T) {
	t.Parallel()

	store := customer.NewMemoryStore(customer.Config{})
	store.Put("u1", map[string]any{"displayName": "Ada", "plan": "free"})

	dir := &MockDirectory{}
	dir.On("Email", mock.Anything, "u1").Return("a@b.com", nil).Once()

	creator := &MockCreator{}
	creator.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(r billing.CustomerRequest) bool {
		return r.UserID == "u1" && r.Email == "a@b.com" &&
			strings.HasPrefix(r.IdempotencyKey, "customer-create-u1-")
	})).Return(&billing.Customer{ID: "cus_new"}, nil).Once()

	rec := &countingRecorder{}
	r := customer.NewResolver(store, dir, creator, customer.WithMetrics(rec))

	id, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "cus_new", id)
	assert.Equal(t, 1, rec.created)

	doc, ok := store.Document("u1")
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"displayName": "Ada",
		"plan":        "free",
		"stripeId":    "cus_new",
	}, doc)

	// Second call is warm.
	id, err = r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "cus_new", id)

	creator.AssertExpectations(t)
	dir.AssertExpectations(t)
}

func TestResolver_ColdPathWithoutDocument(t *testing.T) {
	t.Parallel()

	store := customer.NewMemoryStore(customer.Config{Field: "billingCustomer"})
	dir := identity.DirectoryFunc(func(context.Context, string) (string, error) { return "a@b.com", nil })
	creator := &MockCreator{}
	creator.On("CreateCustomer", mock.Anything, mock.Anything).Return(&billing.Customer{ID: "cus_new"}, nil)

	r := customer.NewResolver(store, dir, creator, customer.WithIdempotencyKeyPrefix(""))

	id, err := r.Resolve(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "cus_new", id)

	doc, ok := store.Document("u2")
	require.True(t, ok)
	assert.Equal(t, "cus_new", doc["billingCustomer"])

	req := creator.Calls[0].Arguments.Get(1).(billing.CustomerRequest)
	assert.Empty(t, req.IdempotencyKey)
}

func TestResolver_IdempotencyKeyFollowsEmail(t *testing.T) {
	t.Parallel()

	var keys []string
	creator := creatorFunc(func(_ context.Context, req billing.CustomerRequest) (*billing.Customer, error) {
		keys = append(keys, req.IdempotencyKey)
		return nil, errors.New("rejected")
	})

	for _, email := range []string{"old@b.com", "old@b.com", "new@b.com"} {
		dir := identity.DirectoryFunc(func(context.Context, string) (string, error) { return email, nil })
		r := customer.NewResolver(customer.NewMemoryStore(customer.Config{}), dir, creator)
		_, err := r.Resolve(context.Background(), "u1")
		require.ErrorIs(t, err, customer.ErrUpstream)
	}

	require.Len(t, keys, 3)
	assert.Equal(t, keys[0], keys[1], "same user and email retry with the same key")
	assert.NotEqual(t, keys[0], keys[2], "email change yields a new key")
	for _, k := range keys {
		assert.True(t, strings.HasPrefix(k, "customer-create-u1-"), k)
	}
}

func TestResolver_ConcurrentWriterWins(t *testing.T) {
	t.Parallel()

	store := &MockStore{}
	store.On("CustomerID", mock.Anything, "u1").Return("", nil).Once()
	store.On("SetCustomerIDIfAbsent", mock.Anything, "u1", "cus_late").Return("cus_first", nil).Once()

	dir := identity.DirectoryFunc(func(context.Context, string) (string, error) { return "a@b.com", nil })
	creator := &MockCreator{}
	creator.On("CreateCustomer", mock.Anything, mock.Anything).Return(&billing.Customer{ID: "cus_late"}, nil)

	r := customer.NewResolver(store, dir, creator)

	id, err := r.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "cus_first", id)
	store.AssertExpectations(t)
}

func TestResolver_ParallelColdPathsConverge(t *testing.T) {
	t.Parallel()

	store := customer.NewMemoryStore(customer.Config{})
	dir := identity.DirectoryFunc(func(context.Context, string) (string, error) { return "a@b.com", nil })

	var mu sync.Mutex
	n := 0
	creator := creatorFunc(func(context.Context, billing.CustomerRequest) (*billing.Customer, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return &billing.Customer{ID: fmt.Sprintf("cus_%d", n)}, nil
	})

	r := customer.NewResolver(store, dir, creator)

	const workers = 8
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := r.Resolve(context.Background(), "u1")
			assert.NoError(t, err)
			results[i] = id
		}()
	}
	wg.Wait()

	stored, err := store.CustomerID(context.Background(), "u1")
	require.NoError(t, err)
	for _, id := range results {
		assert.Equal(t, stored, id)
	}
}

func TestResolver_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	okDir := identity.DirectoryFunc(func(context.Context, string) (string, error) { return "a@b.com", nil })

	t.Run("missing user id", func(t *testing.T) {
		t.Parallel()
		r := customer.NewResolver(customer.NewMemoryStore(customer.Config{}), okDir, &MockCreator{})
		_, err := r.Resolve(ctx, "")
		assert.ErrorIs(t, err, customer.ErrMissingUserID)
	})

	t.Run("identity record missing", func(t *testing.T) {
		t.Parallel()
		dir := identity.DirectoryFunc(func(context.Context, string) (string, error) {
			return "", identity.ErrUserNotFound
		})
		creator := &MockCreator{}
		r := customer.NewResolver(customer.NewMemoryStore(customer.Config{}), dir, creator)

		_, err := r.Resolve(ctx, "ghost")
		assert.ErrorIs(t, err, customer.ErrNotFound)
		creator.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("directory failure", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("pool closed")
		dir := identity.DirectoryFunc(func(context.Context, string) (string, error) { return "", cause })
		r := customer.NewResolver(customer.NewMemoryStore(customer.Config{}), dir, &MockCreator{})

		_, err := r.Resolve(ctx, "u1")
		assert.ErrorIs(t, err, customer.ErrDirectory)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("provider rejects", func(t *testing.T) {
		t.Parallel()
		store := customer.NewMemoryStore(customer.Config{})
		creator := &MockCreator{}
		upstream := &billing.ProviderError{Provider: "stripe", Message: "card declined"}
		creator.On("CreateCustomer", mock.Anything, mock.Anything).Return(nil, upstream).Once()
		r := customer.NewResolver(store, okDir, creator)

		_, err := r.Resolve(ctx, "u1")
		assert.ErrorIs(t, err, customer.ErrUpstream)
		assert.Contains(t, err.Error(), "card declined")

		_, ok := store.Document("u1")
		assert.False(t, ok, "nothing persisted on provider failure")
		creator.AssertNumberOfCalls(t, "CreateCustomer", 1)
	})

	t.Run("store read failure", func(t *testing.T) {
		t.Parallel()
		store := &MockStore{}
		store.On("CustomerID", mock.Anything, "u1").Return("", errors.New("timeout"))
		creator := &MockCreator{}
		r := customer.NewResolver(store, okDir, creator)

		_, err := r.Resolve(ctx, "u1")
		assert.ErrorIs(t, err, customer.ErrStore)
		creator.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("store write failure", func(t *testing.T) {
		t.Parallel()
		store := &MockStore{}
		store.On("CustomerID", mock.Anything, "u1").Return("", nil)
		store.On("SetCustomerIDIfAbsent", mock.Anything, "u1", "cus_new").Return("", errors.New("not primary"))
		creator := &MockCreator{}
		creator.On("CreateCustomer", mock.Anything, mock.Anything).Return(&billing.Customer{ID: "cus_new"}, nil)
		r := customer.NewResolver(store, okDir, creator)

		_, err := r.Resolve(ctx, "u1")
		assert.ErrorIs(t, err, customer.ErrStore)
	})
}

func TestResolver_Cache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("hit skips store", func(t *testing.T) {
		t.Parallel()
		cache := &MockCache{}
		cache.On("Get", mock.Anything, "u1").Return("cus_cached", nil)
		store := &MockStore{}
		rec := &countingRecorder{}
		r := customer.NewResolver(store, nil, &MockCreator{}, customer.WithCache(cache), customer.WithMetrics(rec))

		id, err := r.Resolve(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "cus_cached", id)
		assert.Equal(t, 1, rec.hits)
		store.AssertNotCalled(t, "CustomerID", mock.Anything, mock.Anything)
	})

	t.Run("miss fills cache", func(t *testing.T) {
		t.Parallel()
		cache := &MockCache{}
		cache.On("Get", mock.Anything, "u1").Return("", customer.ErrCacheMiss)
		cache.On("Set", mock.Anything, "u1", "cus_123").Return(nil).Once()
		store := customer.NewMemoryStore(customer.Config{})
		store.Put("u1", map[string]any{"stripeId": "cus_123"})
		rec := &countingRecorder{}
		r := customer.NewResolver(store, nil, &MockCreator{}, customer.WithCache(cache), customer.WithMetrics(rec))

		id, err := r.Resolve(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "cus_123", id)
		assert.Equal(t, 1, rec.misses)
		cache.AssertExpectations(t)
	})

	t.Run("cache failures are ignored", func(t *testing.T) {
		t.Parallel()
		cache := &MockCache{}
		cache.On("Get", mock.Anything, "u1").Return("", errors.New("redis down"))
		cache.On("Set", mock.Anything, "u1", "cus_123").Return(errors.New("redis down"))
		store := customer.NewMemoryStore(customer.Config{})
		store.Put("u1", map[string]any{"stripeId": "cus_123"})
		r := customer.NewResolver(store, nil, &MockCreator{}, customer.WithCache(cache))

		id, err := r.Resolve(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "cus_123", id)
	})
}
