// Package requestid attaches a correlation ID to every HTTP request.
//
// The middleware reuses a well-formed X-Request-ID (or the platform's
// Function-Execution-Id) header, generates a UUIDv4 otherwise, stores the ID in
// the request context and echoes it back in the X-Request-ID response header.
// LoggerExtractor plugs the ID into pkg/logger so every record written with
// the request context carries it.
package requestid
