package customer

import "log/slog"

type ResolverOption func(*Resolver)

func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithCache puts a read-through cache in front of the store. Cache failures
// are logged and otherwise ignored.
func WithCache(c Cache) ResolverOption {
	return func(r *Resolver) {
		r.cache = c
	}
}

func WithMetrics(m Recorder) ResolverOption {
	return func(r *Resolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithIdempotencyKeyPrefix sets the prefix of the provider idempotency key,
// which is prefix+userID+"-"+hash(email). The email hash keeps a retry after
// an email change from colliding with the earlier request's parameters. An
// empty prefix disables idempotency keys.
func WithIdempotencyKeyPrefix(prefix string) ResolverOption {
	return func(r *Resolver) {
		r.idempotencyPrefix = prefix
	}
}
