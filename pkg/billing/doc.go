// Package billing adapts hosted payment providers to the two calls a
// checkout flow needs: creating a customer and opening a subscription
// checkout session for that customer.
//
// Two providers are available, Stripe and Paddle. Pick one with
// [NewProvider]:
//
//	cfg := config.MustLoad[billing.Config]()
//	provider, err := billing.NewProvider(cfg, log)
//
// Provider failures are returned as [*ProviderError]. Its Error method yields
// the upstream message unchanged so callers can surface it to clients.
package billing
