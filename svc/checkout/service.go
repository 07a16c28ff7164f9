package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/checkoutkit/pkg/billing"
	"github.com/dmitrymomot/checkoutkit/pkg/callable"
	"github.com/dmitrymomot/checkoutkit/pkg/logger"
	"github.com/dmitrymomot/checkoutkit/pkg/metrics"
	"github.com/dmitrymomot/checkoutkit/svc/identity"
)

const (
	msgUnauthenticated = "The function must be called while authenticated."
	msgMissingPriceID  = "The function must be called with a priceId."
	msgInternal        = "Failed to create checkout session."
)

// Request is the callable payload.
type Request struct {
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl,omitempty"`
	CancelURL  string `json:"cancelUrl,omitempty"`
}

type Response struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CustomerResolver maps a user to the payment provider customer.
type CustomerResolver interface {
	Resolve(ctx context.Context, userID string) (string, error)
}

// SessionInitiator validates and opens checkout sessions.
type SessionInitiator interface {
	Prepare(p SessionParams) (SessionParams, error)
	CreateSession(ctx context.Context, p SessionParams) (*Session, error)
}

// SessionRecorder receives request outcomes. *metrics.Metrics satisfies it.
type SessionRecorder interface {
	ObserveSession(outcome string, d time.Duration)
}

type Service struct {
	customers CustomerResolver
	sessions  SessionInitiator
	log       *slog.Logger
	metrics   SessionRecorder
}

type ServiceOption func(*Service)

func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m SessionRecorder) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

func NewService(customers CustomerResolver, sessions SessionInitiator, opts ...ServiceOption) *Service {
	s := &Service{
		customers: customers,
		sessions:  sessions,
		log:       logger.Nop(),
		metrics:   (*metrics.Metrics)(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("checkout"))
	return s
}

// CreateCheckoutSession resolves the caller's customer and opens a checkout
// session for req.PriceID. Returned errors are always *callable.Error.
func (s *Service) CreateCheckoutSession(ctx context.Context, caller *identity.Caller, req Request) (resp *Response, err error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveSession(outcome(err), time.Since(start))
	}()

	if !caller.Authenticated() {
		return nil, callable.Unauthenticated(msgUnauthenticated)
	}

	params, err := s.sessions.Prepare(SessionParams{
		PriceID:    req.PriceID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		return nil, invalidArgument(err)
	}

	customerID, err := s.customers.Resolve(ctx, caller.UserID)
	if err != nil {
		return nil, s.internal(ctx, caller, params.PriceID, err)
	}
	params.CustomerID = customerID

	session, err := s.sessions.CreateSession(ctx, params)
	if err != nil {
		return nil, s.internal(ctx, caller, params.PriceID, err)
	}

	s.log.InfoContext(ctx, "checkout session created",
		logger.UserID(caller.UserID),
		logger.CustomerID(customerID),
		logger.PriceID(params.PriceID),
		logger.SessionID(session.ID),
	)

	return &Response{SessionID: session.ID, URL: session.URL}, nil
}

// Handler serves CreateCheckoutSession over the callable protocol. The
// caller is taken from the request context, see identity.Middleware.
func (s *Service) Handler() http.HandlerFunc {
	return callable.Handler(func(ctx context.Context, req Request) (*Response, error) {
		return s.CreateCheckoutSession(ctx, identity.CallerFromContext(ctx), req)
	}, callable.WithLogger(s.log))
}

func (s *Service) internal(ctx context.Context, caller *identity.Caller, priceID string, err error) error {
	s.log.ErrorContext(ctx, "failed to create checkout session",
		logger.UserID(caller.UserID),
		logger.PriceID(priceID),
		logger.Error(err),
	)
	return callable.Internal(clientMessage(err), err)
}

func invalidArgument(err error) error {
	if errors.Is(err, ErrMissingPriceID) {
		return callable.InvalidArgument(msgMissingPriceID)
	}
	return callable.InvalidArgument(err.Error())
}

// clientMessage carries the upstream message to the caller. Provider errors
// are reported by their own text, e.g. "card declined".
func clientMessage(err error) string {
	var pe *billing.ProviderError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgInternal
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	switch callable.KindOf(err) {
	case callable.KindUnauthenticated:
		return metrics.OutcomeUnauthenticated
	case callable.KindInvalidArgument:
		return metrics.OutcomeInvalidArgument
	default:
		return metrics.OutcomeInternal
	}
}
