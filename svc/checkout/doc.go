// Package checkout implements the createCheckoutSession callable.
//
// A call resolves (or provisions) the caller's payment provider customer and
// opens a subscription checkout session for the requested price:
//
//	svc := checkout.NewService(resolver, initiator, checkout.WithLogger(log))
//	r.With(identity.Middleware(tokens, log)).Post("/createCheckoutSession", svc.Handler())
//
// Failures reach the client as callable errors: unauthenticated when there
// is no verified caller, invalid-argument for a bad request and internal for
// anything that went wrong upstream.
package checkout
