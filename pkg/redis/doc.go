// Package redis connects to Redis, used as an optional read-through cache of
// user ID to customer reference lookups.
package redis
