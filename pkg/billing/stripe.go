package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

const stripeName = "stripe"

// StripeProvider talks to the Stripe API through a dedicated client, so the
// package-level stripe.Key is never touched.
type StripeProvider struct {
	api    *client.API
	config StripeConfig
}

func NewStripeProvider(cfg StripeConfig, log *slog.Logger) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.UIDMetadataKey == "" {
		cfg.UIDMetadataKey = "firebaseUID"
	}
	if len(cfg.PaymentMethodTypes) == 0 {
		cfg.PaymentMethodTypes = []string{"card"}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	// GetBackendWithConfig mutates the config it receives, so each backend
	// gets its own copy.
	backend := func(typ stripe.SupportedBackend) stripe.Backend {
		bc := &stripe.BackendConfig{
			MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
			LeveledLogger:     stripeLogger{log: log.With("component", "stripe")},
		}
		if cfg.APIURL != "" {
			bc.URL = stripe.String(cfg.APIURL)
		}
		return stripe.GetBackendWithConfig(typ, bc)
	}

	api := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend(stripe.APIBackend),
		Connect: backend(stripe.ConnectBackend),
		Uploads: backend(stripe.UploadsBackend),
	})

	return &StripeProvider{api: api, config: cfg}, nil
}

// CreateCustomer creates a customer tagged with the owning user ID. Stripe
// accepts customers without an email.
func (p *StripeProvider) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if req.Email != "" {
		params.Email = stripe.String(req.Email)
	}
	if req.UserID != "" {
		params.AddMetadata(p.config.UIDMetadataKey, req.UserID)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	c, err := p.api.Customers.New(params)
	if err != nil {
		return nil, stripeError("create customer", err)
	}
	return &Customer{ID: c.ID}, nil
}

// CreateCheckoutSession opens a subscription-mode hosted checkout with a
// single line item of quantity one.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(req.CustomerID),
		PaymentMethodTypes: stripe.StringSlice(p.config.PaymentMethodTypes),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, stripeError("create checkout session", err)
	}
	if s.URL == "" {
		return nil, ErrNoCheckoutURL
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func stripeError(op string, err error) error {
	pe := &ProviderError{Provider: stripeName, Op: op, Err: err}
	var se *stripe.Error
	if errors.As(err, &se) {
		pe.Code = string(se.Code)
		pe.Message = se.Msg
	}
	return pe
}

// stripeLogger adapts slog to stripe.LeveledLoggerInterface.
type stripeLogger struct {
	log *slog.Logger
}

func (l stripeLogger) Debugf(format string, v ...any) { l.log.Debug(fmt.Sprintf(format, v...)) }
func (l stripeLogger) Infof(format string, v ...any)  { l.log.Debug(fmt.Sprintf(format, v...)) }
func (l stripeLogger) Warnf(format string, v ...any)  { l.log.Warn(fmt.Sprintf(format, v...)) }
func (l stripeLogger) Errorf(format string, v ...any) { l.log.Error(fmt.Sprintf(format, v...)) }
