package checkout

type Config struct {
	SuccessURL string `env:"CHECKOUT_SUCCESS_URL,required"`
	CancelURL  string `env:"CHECKOUT_CANCEL_URL,required"`
	// PriceCatalog is an optional YAML file restricting sellable prices.
	PriceCatalog string `env:"CHECKOUT_PRICE_CATALOG"`
}
