package token

import (
	"time"

	"github.com/rinoapp/gwauth/pkg/b64url"
	"github.com/rinoapp/gwauth/pkg/gwauth"
	"github.com/rinoapp/gwauth/pkg/hmac512"
	"golang.org/x/exp/errors/fmt"
	"golang.org/x/oauth2"
)

type Builder struct {
	clientID string
	key      hmac512.Key
	validity int64
	now      func() time.Time
}

var (
	_ gwauth.TokenMinter = (*Builder)(nil)
	_ oauth2.TokenSource = (*Builder)(nil)
)

type Option func(*Builder)

// WithClock replaces time.Now. A clock that returns the zero time reports
// itself as unavailable.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

func NewBuilder(c *gwauth.Credentials, opts ...Option) (*Builder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		clientID: c.ClientID,
		key:      append(hmac512.Key(nil), c.Secret...),
		validity: int64(c.Validity / time.Second),
		now:      time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b, nil
}

// Build mints a token issued at now.
func (b *Builder) Build(now time.Time) (string, error) {
	if now.IsZero() || now.Unix() <= 0 {
		return "", fmt.Errorf("token: bad issue time %v: %w", now, gwauth.ErrClockUnavailable)
	}
	iat := now.Unix()

	header, err := encodeSegment(&Header{
		Alg: gwauth.Algorithm,
		Typ: gwauth.TokenType,
	})
	if err != nil {
		return "", err
	}
	payload, err := encodeSegment(&Payload{
		ClientID:   b.clientID,
		IssuedAt:   iat,
		ExpireTime: iat + b.validity,
	})
	if err != nil {
		return "", err
	}

	signingInput := header + "." + payload
	sig := hmac512.Sum(b.key, b64url.StringToBytes(signingInput))
	return signingInput + "." + b64url.Encode(sig[:]), nil
}

func (b *Builder) Generate() (string, error) {
	return b.Build(b.now())
}

func (b *Builder) AuthorizationHeader() (string, error) {
	tok, err := b.Generate()
	if err != nil {
		return "", err
	}
	return b.TokenType() + " " + tok, nil
}

func (b *Builder) TokenType() string {
	return "Bearer"
}

// Token satisfies oauth2.TokenSource so the builder can sit directly under
// oauth2.Transport. Every call mints a new token.
func (b *Builder) Token() (*oauth2.Token, error) {
	now := b.now()
	tok, err := b.Build(now)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: tok,
		TokenType:   b.TokenType(),
		Expiry:      time.Unix(now.Unix()+b.validity, 0),
	}, nil
}
