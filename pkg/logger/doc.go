// Package logger builds *slog.Logger instances for the checkout service.
//
// Loggers write JSON in production and staging and human-readable text in
// development. Request-scoped values such as the request ID are pulled from
// the context at log time through ContextExtractor functions, so handlers can
// call log.InfoContext(ctx, ...) without threading attributes by hand.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "checkout"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id := requestid.FromContext(ctx)
//			return logger.RequestID(id), id != ""
//		}),
//	)
//
// The attribute helpers (UserID, CustomerID, PriceID, ...) keep key names
// consistent across packages.
package logger
