package billing

import (
	"fmt"
	"log/slog"
	"strings"
)

// NewProvider builds the provider named by cfg.Provider.
func NewProvider(cfg Config, log *slog.Logger) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderStripe, "":
		return NewStripeProvider(cfg.Stripe, log)
	case ProviderPaddle:
		return NewPaddleProvider(cfg.Paddle)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
