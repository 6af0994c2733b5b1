package gwauth

import (
	"errors"
	"time"
	"unicode/utf8"

	"golang.org/x/exp/errors/fmt"
)

const (
	// DefaultClientID identifies the admin web application to the gateway.
	DefaultClientID = "sme-web-app"

	// DefaultSharedSecret is the compiled-in fallback secret. Anything
	// holding the binary can read it; deployments set GWAUTH_SHARED_SECRET
	// or GWAUTH_SECRET_NAME instead.
	DefaultSharedSecret = "change-me-gateway-shared-secret"

	// Validity is the fixed distance between iat and exp.
	Validity = 120 * time.Second

	Algorithm = "HS512"
	TokenType = "JWT"
)

var (
	ErrInvalidCredentials = errors.New("gwauth: invalid credentials")
	ErrClockUnavailable   = errors.New("gwauth: clock unavailable")
	ErrEncoding           = errors.New("gwauth: token encoding failed")
)

// Credentials are resolved once at start-up and never mutated afterwards.
type Credentials struct {
	ClientID string
	Secret   []byte
	Validity time.Duration
}

func DefaultCredentials() *Credentials {
	return &Credentials{
		ClientID: DefaultClientID,
		Secret:   []byte(DefaultSharedSecret),
		Validity: Validity,
	}
}

func (c *Credentials) Validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("gwauth: missing credentials: %w", ErrInvalidCredentials)
	case c.ClientID == "":
		return fmt.Errorf("gwauth: empty client id: %w", ErrInvalidCredentials)
	case !utf8.ValidString(c.ClientID):
		return fmt.Errorf("gwauth: client id is not valid UTF-8: %w", ErrInvalidCredentials)
	case len(c.Secret) == 0:
		return fmt.Errorf("gwauth: empty shared secret: %w", ErrInvalidCredentials)
	case c.Validity < time.Second:
		return fmt.Errorf("gwauth: validity %v is shorter than one second: %w", c.Validity, ErrInvalidCredentials)
	}
	return nil
}

// TokenMinter produces a fresh token for every call. Implementations never
// cache or reuse a token.
type TokenMinter interface {
	Generate() (string, error)
	AuthorizationHeader() (string, error)
}
