package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrymomot/checkoutkit/pkg/billing"
	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
)

// SessionCreator opens hosted checkout sessions at the payment provider.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, req billing.CheckoutRequest) (*billing.CheckoutSession, error)
}

type SessionParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

type Session struct {
	ID  string
	URL string
}

// Initiator opens one subscription checkout session per call.
type Initiator struct {
	provider SessionCreator
	catalog  *catalog.Catalog
	success  string
	cancel   string
}

type InitiatorOption func(*Initiator)

// WithCatalog rejects prices that are not listed in c.
func WithCatalog(c *catalog.Catalog) InitiatorOption {
	return func(i *Initiator) {
		i.catalog = c
	}
}

// NewInitiator uses cfg's redirect URLs when a request leaves them out.
func NewInitiator(provider SessionCreator, cfg Config, opts ...InitiatorOption) *Initiator {
	i := &Initiator{
		provider: provider,
		success:  strings.TrimSpace(cfg.SuccessURL),
		cancel:   strings.TrimSpace(cfg.CancelURL),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Prepare validates p and fills in fallback redirect URLs. It never calls
// the provider.
func (i *Initiator) Prepare(p SessionParams) (SessionParams, error) {
	p.PriceID = strings.TrimSpace(p.PriceID)
	if p.PriceID == "" {
		return p, ErrMissingPriceID
	}
	if !i.catalog.Contains(p.PriceID) {
		return p, fmt.Errorf("%w: %s", ErrUnknownPrice, p.PriceID)
	}

	p.SuccessURL = pick(p.SuccessURL, i.success)
	p.CancelURL = pick(p.CancelURL, i.cancel)
	if p.SuccessURL == "" || p.CancelURL == "" {
		return p, ErrMissingRedirectURL
	}
	if !isRedirectURL(p.SuccessURL) {
		return p, fmt.Errorf("%w: success url", ErrInvalidRedirectURL)
	}
	if !isRedirectURL(p.CancelURL) {
		return p, fmt.Errorf("%w: cancel url", ErrInvalidRedirectURL)
	}
	return p, nil
}

// CreateSession opens a subscription session with a single line item of
// quantity one for the given customer. The provider is called once.
func (i *Initiator) CreateSession(ctx context.Context, p SessionParams) (*Session, error) {
	p, err := i.Prepare(p)
	if err != nil {
		return nil, err
	}
	if p.CustomerID == "" {
		return nil, billing.ErrMissingCustomerID
	}

	s, err := i.provider.CreateCheckoutSession(ctx, billing.CheckoutRequest{
		CustomerID: p.CustomerID,
		PriceID:    p.PriceID,
		SuccessURL: p.SuccessURL,
		CancelURL:  p.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

func pick(requested, fallback string) string {
	if v := strings.TrimSpace(requested); v != "" {
		return v
	}
	return fallback
}

func isRedirectURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
