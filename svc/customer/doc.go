// Package customer resolves the payment provider customer that belongs to a
// user, creating and persisting one on first use.
//
// The warm path reads the reference from the user's document and returns it
// without touching the provider. The cold path looks up the user's email,
// creates a provider customer tagged with the user ID and stores the new
// reference with a set-if-absent write. When two cold paths race, the first
// stored reference wins and both callers return it.
//
//	resolver := customer.NewResolver(store, directory, provider,
//		customer.WithLogger(log),
//		customer.WithCache(customer.NewRedisCache(rdb, cfg)),
//	)
//	ref, err := resolver.Resolve(ctx, caller.UserID)
package customer
