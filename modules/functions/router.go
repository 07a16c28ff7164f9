// Package functions mounts the callable functions and their operational
// endpoints on a chi router.
package functions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/checkoutkit/pkg/callable"
	"github.com/dmitrymomot/checkoutkit/pkg/requestid"
	"github.com/dmitrymomot/checkoutkit/svc/identity"
)

// RouterOptions configures what is mounted. Nil handlers are skipped.
type RouterOptions struct {
	// CreateCheckoutSession is served at POST /createCheckoutSession.
	CreateCheckoutSession http.Handler

	// Tokens verifies bearer tokens on function routes.
	Tokens identity.TokenParser

	Health  http.Handler
	Metrics http.Handler
	Logger  *slog.Logger
}

// Router creates the function router.
//
// Example:
//
//	r := functions.Router(functions.RouterOptions{
//	    CreateCheckoutSession: checkoutSvc.Handler(),
//	    Tokens:                jwtSvc,
//	    Health:                httpserver.HealthCheckHandler(log, 5*time.Second, checks),
//	    Metrics:               m.Handler(),
//	})
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.NotFound(callable.NotFoundHandler())

	if opts.Health != nil {
		r.Method(http.MethodGet, "/healthz", opts.Health)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Group(func(fn chi.Router) {
		if opts.Tokens != nil {
			fn.Use(identity.Middleware(opts.Tokens, opts.Logger))
		}
		if opts.CreateCheckoutSession != nil {
			fn.Handle("/createCheckoutSession", opts.CreateCheckoutSession)
		}
	})

	return r
}
