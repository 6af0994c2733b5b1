// Package b64url converts between strings, bytes and the unpadded base64url
// alphabet of RFC 4648 §5 used by compact token segments.
package b64url

import (
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/exp/errors/fmt"
)

var ErrMalformed = errors.New("b64url: malformed input")

func StringToBytes(s string) []byte {
	return []byte(s)
}

// Encode returns the base64url form of b with all padding stripped.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func EncodeString(s string) string {
	return Encode(StringToBytes(s))
}

// DecodeString reverses Encode. Input that already carries the correct '='
// padding is accepted; anything outside the alphabet is rejected.
func DecodeString(s string) ([]byte, error) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		pad := s[i:]
		if len(s)%4 != 0 || len(pad) > 2 || strings.Trim(pad, "=") != "" {
			return nil, fmt.Errorf("b64url: bad padding %q: %w", pad, ErrMalformed)
		}
		s = s[:i]
	}
	if len(s)%4 == 1 {
		return nil, fmt.Errorf("b64url: impossible length %d: %w", len(s), ErrMalformed)
	}
	for i := 0; i < len(s); i++ {
		if !inAlphabet(s[i]) {
			return nil, fmt.Errorf("b64url: illegal character %q at offset %d: %w", s[i], i, ErrMalformed)
		}
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("b64url: %v: %w", err, ErrMalformed)
	}
	return b, nil
}

func inAlphabet(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
