// Package jwt issues and verifies HS256 JSON Web Tokens.
//
// The checkout service only needs to learn who is calling: the identity
// middleware extracts a bearer token, verifies it with Service.Parse and uses
// the "sub" claim as the caller's user ID. Generate exists for the tooling and
// tests that mint tokens with the same key.
package jwt
