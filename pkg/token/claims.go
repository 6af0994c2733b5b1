package token

import (
	"bytes"
	"encoding/json"

	"github.com/rinoapp/gwauth/pkg/b64url"
	"github.com/rinoapp/gwauth/pkg/gwauth"
	"golang.org/x/exp/errors/fmt"
)

// Header is the JOSE header. Field order fixes the wire form
// {"alg":"HS512","typ":"JWT"}.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

type Payload struct {
	ClientID   string `json:"client_id"`
	IssuedAt   int64  `json:"iat"`
	ExpireTime int64  `json:"exp"`
}

func encodeSegment(v interface{}) (string, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("token: error encoding %T: %v: %w", v, err, gwauth.ErrEncoding)
	}
	return b64url.Encode(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func decodeSegment(seg string, v interface{}) error {
	data, err := b64url.DecodeString(seg)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
