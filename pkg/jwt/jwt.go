package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const algorithm = "HS256"

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

var encodedHeader = mustEncodeHeader()

func mustEncodeHeader() string {
	b, err := json.Marshal(header{Type: "JWT", Algorithm: algorithm})
	if err != nil {
		panic(err)
	}
	return encode(b)
}

// Service signs and verifies tokens with a shared HMAC key.
type Service struct {
	key []byte
}

func New(signingKey string) (*Service, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}
	return &Service{key: []byte(signingKey)}, nil
}

// Generate signs claims, which must be JSON-serializable.
func (s *Service) Generate(claims any) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("jwt: marshal claims: %w", err)
	}
	unsigned := encodedHeader + "." + encode(payload)
	return unsigned + "." + s.sign(unsigned), nil
}

// Parse verifies the signature and algorithm of token and decodes its claims
// into dst. When dst has a Valid() error method its result is returned.
func (s *Service) Parse(token string, dst any) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}

	unsigned := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.sign(unsigned))) != 1 {
		return ErrInvalidSignature
	}

	rawHeader, err := decode(parts[0])
	if err != nil {
		return fmt.Errorf("%w: header: %w", ErrInvalidToken, err)
	}
	var h header
	if err := json.Unmarshal(rawHeader, &h); err != nil {
		return fmt.Errorf("%w: header: %w", ErrInvalidToken, err)
	}
	if h.Algorithm != algorithm {
		return ErrUnexpectedSigningMethod
	}

	rawClaims, err := decode(parts[1])
	if err != nil {
		return fmt.Errorf("%w: claims: %w", ErrInvalidToken, err)
	}
	if err := json.Unmarshal(rawClaims, dst); err != nil {
		return fmt.Errorf("%w: claims: %w", ErrInvalidToken, err)
	}

	if v, ok := dst.(interface{ Valid() error }); ok {
		return v.Valid()
	}
	return nil
}

func (s *Service) sign(unsigned string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(unsigned))
	return encode(mac.Sum(nil))
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
