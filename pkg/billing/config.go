package billing

const (
	ProviderStripe = "stripe"
	ProviderPaddle = "paddle"
)

// Config selects and configures the payment provider. Only the section of
// the selected provider has to be filled.
type Config struct {
	Provider string `env:"BILLING_PROVIDER" envDefault:"stripe"`

	Stripe StripeConfig
	Paddle PaddleConfig
}

type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
	// APIURL overrides the API base URL, e.g. for stripe-mock.
	APIURL             string   `env:"STRIPE_API_URL"`
	UIDMetadataKey     string   `env:"STRIPE_UID_METADATA_KEY" envDefault:"firebaseUID"`
	PaymentMethodTypes []string `env:"STRIPE_PAYMENT_METHOD_TYPES" envDefault:"card" envSeparator:","`
	MaxNetworkRetries  int64    `env:"STRIPE_MAX_NETWORK_RETRIES" envDefault:"0"`
}

type PaddleConfig struct {
	APIKey         string `env:"PADDLE_API_KEY"`
	Environment    string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	UIDCustomField string `env:"PADDLE_UID_CUSTOM_FIELD" envDefault:"user_id"`
}
