// Package identity carries the authenticated caller through a request and
// resolves a user's email from the user directory.
//
// [Middleware] verifies the bearer token and stores a [*Caller] in the
// request context. It never rejects a request on its own: handlers decide
// how to report a missing caller.
package identity
