// Package httpserver runs the checkout HTTP endpoint with configurable
// timeouts and graceful shutdown on context cancellation or SIGINT/SIGTERM.
// It also provides the readiness handler that aggregates dependency checks
// (MongoDB, Postgres, Redis).
package httpserver
