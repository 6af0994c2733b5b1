package token

import (
	"errors"
	"strings"
	"time"

	"github.com/rinoapp/gwauth/pkg/b64url"
	"github.com/rinoapp/gwauth/pkg/gwauth"
	"github.com/rinoapp/gwauth/pkg/hmac512"
	"golang.org/x/exp/errors/fmt"
)

var (
	ErrMalformed            = errors.New("token: malformed token")
	ErrUnsupportedAlgorithm = errors.New("token: unsupported algorithm")
	ErrInvalidSignature     = errors.New("token: invalid signature")
)

// Info is a decoded view of a token. Nothing in it has been verified.
type Info struct {
	Header    Header
	Payload   Payload
	Expired   bool
	ExpiresAt time.Time
}

func split(tok string) ([]string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("token: %d segments: %w", len(parts), ErrMalformed)
	}
	return parts, nil
}

// ValidFormat reports whether tok has three dot-separated segments that each
// decode as base64url. The signature is not checked.
func ValidFormat(tok string) bool {
	parts, err := split(tok)
	if err != nil {
		return false
	}
	for _, p := range parts {
		if _, err := b64url.DecodeString(p); err != nil {
			return false
		}
	}
	return true
}

func parse(tok string) (*Header, *Payload, error) {
	parts, err := split(tok)
	if err != nil {
		return nil, nil, err
	}
	h := &Header{}
	if err := decodeSegment(parts[0], h); err != nil {
		return nil, nil, fmt.Errorf("token: header: %v: %w", err, ErrMalformed)
	}
	p := &Payload{}
	if err := decodeSegment(parts[1], p); err != nil {
		return nil, nil, fmt.Errorf("token: payload: %v: %w", err, ErrMalformed)
	}
	return h, p, nil
}

// Inspect decodes tok for diagnostics and returns nil if it cannot.
func Inspect(tok string, now time.Time) *Info {
	h, p, err := parse(tok)
	if err != nil {
		return nil
	}
	info := &Info{
		Header:  *h,
		Payload: *p,
		Expired: expired(p, now),
	}
	if p.ExpireTime != 0 {
		info.ExpiresAt = time.Unix(p.ExpireTime, 0)
	}
	return info
}

// Expiration returns the exp claim of tok. It reports false for malformed
// tokens and for payloads without exp.
func Expiration(tok string) (time.Time, bool) {
	_, p, err := parse(tok)
	if err != nil || p.ExpireTime == 0 {
		return time.Time{}, false
	}
	return time.Unix(p.ExpireTime, 0), true
}

// Expired fails closed: anything that cannot be decoded is expired.
func Expired(tok string, now time.Time) bool {
	_, p, err := parse(tok)
	if err != nil {
		return true
	}
	return expired(p, now)
}

func expired(p *Payload, now time.Time) bool {
	return p.ExpireTime == 0 || now.Unix() >= p.ExpireTime
}

// Verify recomputes the signature of tok under k. The minting path never
// calls it; it backs the CLI self-test and the test suite.
func Verify(tok string, k hmac512.Key) error {
	h, _, err := parse(tok)
	if err != nil {
		return err
	}
	if h.Alg != gwauth.Algorithm {
		return fmt.Errorf("token: alg %q: %w", h.Alg, ErrUnsupportedAlgorithm)
	}
	i := strings.LastIndexByte(tok, '.')
	sig, err := b64url.DecodeString(tok[i+1:])
	if err != nil {
		return ErrInvalidSignature
	}
	want := hmac512.Sum(k, b64url.StringToBytes(tok[:i]))
	if !hmac512.Equal(want[:], sig) {
		return ErrInvalidSignature
	}
	return nil
}
