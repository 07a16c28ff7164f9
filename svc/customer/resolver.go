package customer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/checkoutkit/pkg/billing"
	"github.com/dmitrymomot/checkoutkit/pkg/logger"
	"github.com/dmitrymomot/checkoutkit/svc/identity"
)

const defaultIdempotencyPrefix = "customer-create-"

type Resolver struct {
	store     Store
	directory identity.Directory
	creator   Creator

	cache             Cache
	metrics           Recorder
	log               *slog.Logger
	idempotencyPrefix string
}

func NewResolver(store Store, directory identity.Directory, creator Creator, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:             store,
		directory:         directory,
		creator:           creator,
		metrics:           nopRecorder{},
		log:               logger.Nop(),
		idempotencyPrefix: defaultIdempotencyPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("customer"))
	return r
}

// Resolve returns the user's customer reference, creating it at the
// provider on first use. Nothing is retried.
func (r *Resolver) Resolve(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrMissingUserID
	}

	if id := r.cached(ctx, userID); id != "" {
		return id, nil
	}

	id, err := r.store.CustomerID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: read: %w", ErrStore, err)
	}
	if id != "" {
		r.remember(ctx, userID, id)
		return id, nil
	}

	return r.provision(ctx, userID)
}

func (r *Resolver) provision(ctx context.Context, userID string) (string, error) {
	email, err := r.directory.Email(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return "", fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return "", fmt.Errorf("%w: %w", ErrDirectory, err)
	}

	req := billing.CustomerRequest{UserID: userID, Email: email}
	if r.idempotencyPrefix != "" {
		req.IdempotencyKey = idempotencyKey(r.idempotencyPrefix, userID, email)
	}

	created, err := r.creator.CreateCustomer(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	r.metrics.CustomerCreated()

	stored, err := r.store.SetCustomerIDIfAbsent(ctx, userID, created.ID)
	if err != nil {
		r.log.ErrorContext(ctx, "created customer could not be persisted",
			logger.UserID(userID),
			logger.CustomerID(created.ID),
			logger.Error(err),
		)
		return "", fmt.Errorf("%w: write: %w", ErrStore, err)
	}

	if stored != created.ID {
		r.log.WarnContext(ctx, "concurrent checkout stored another customer, new one is orphaned",
			logger.UserID(userID),
			logger.CustomerID(stored),
			slog.String("orphaned_customer_id", created.ID),
		)
	} else {
		r.log.InfoContext(ctx, "customer created", logger.UserID(userID), logger.CustomerID(stored))
	}

	r.remember(ctx, userID, stored)
	return stored, nil
}

func (r *Resolver) cached(ctx context.Context, userID string) string {
	if r.cache == nil {
		return ""
	}
	id, err := r.cache.Get(ctx, userID)
	switch {
	case err == nil && id != "":
		r.metrics.CustomerCacheLookup(true)
		return id
	case err == nil, errors.Is(err, ErrCacheMiss):
		r.metrics.CustomerCacheLookup(false)
	default:
		r.log.WarnContext(ctx, "customer cache read failed", logger.UserID(userID), logger.Error(err))
	}
	return ""
}

func (r *Resolver) remember(ctx context.Context, userID, customerID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, userID, customerID); err != nil {
		r.log.WarnContext(ctx, "customer cache write failed", logger.UserID(userID), logger.Error(err))
	}
}

func idempotencyKey(prefix, userID, email string) string {
	sum := sha256.Sum256([]byte(email))
	return prefix + userID + "-" + hex.EncodeToString(sum[:6])
}
