package customer

import "time"

type Config struct {
	Collection        string        `env:"USERS_COLLECTION" envDefault:"users"`
	Field             string        `env:"USERS_CUSTOMER_FIELD" envDefault:"stripeId"`
	CacheTTL          time.Duration `env:"CUSTOMER_CACHE_TTL" envDefault:"24h"`
	CachePrefix       string        `env:"CUSTOMER_CACHE_PREFIX" envDefault:"customer:"`
	IdempotencyPrefix string        `env:"CUSTOMER_IDEMPOTENCY_PREFIX" envDefault:"customer-create-"`
}

func (c Config) withDefaults() Config {
	if c.Collection == "" {
		c.Collection = "users"
	}
	if c.Field == "" {
		c.Field = "stripeId"
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 24 * time.Hour
	}
	if c.CachePrefix == "" {
		c.CachePrefix = "customer:"
	}
	return c
}
