// Package cli implements the gwauth operator commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rinoapp/gwauth/pkg/hmac512"
	"github.com/rinoapp/gwauth/pkg/token"
)

type Config struct {
	Builder    *token.Builder
	Key        hmac512.Key
	BaseURL    string
	Timeout    time.Duration
	DeviceID   string
	AppVersion string
	Now        func() time.Time
}

func (c *Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// deviceID falls back to a random identifier for the life of the process.
func (c *Config) deviceID() string {
	if c.DeviceID == "" {
		c.DeviceID = uuid.New().String()
	}
	return c.DeviceID
}

var CLI struct {
	Mint     mintCmd     `kong:"cmd,help='mint a gateway token',default:'1'"`
	Inspect  inspectCmd  `kong:"cmd,help='decode a token'"`
	Digest   digestCmd   `kong:"cmd,help='hex SHA-512 or HMAC-SHA512 of an argument or stdin'"`
	Selftest selftestCmd `kong:"cmd,help='check the hash engines against known vectors'"`
	Get      getCmd      `kong:"cmd,help='GET a gateway path with a freshly minted token'"`
}

type mintCmd struct {
	Header bool `kong:"name='header',help='print the full Authorization header value'"`
}

func (c *mintCmd) Run(cfg *Config) error {
	var out string
	var err error
	if c.Header {
		out, err = cfg.Builder.AuthorizationHeader()
	} else {
		out, err = cfg.Builder.Generate()
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

var errInvalidToken = errors.New("cli: token could not be decoded")

type inspectCmd struct {
	Token  string `kong:"arg,required,help='the token to decode'"`
	Verify bool   `kong:"name='verify',help='check the signature with the configured secret'"`
}

func (c *inspectCmd) Run(cfg *Config) error {
	info := token.Inspect(c.Token, cfg.now())
	if info == nil {
		return errInvalidToken
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Field", "Value"})
	for _, r := range inspectRows(info) {
		t.AppendRow(r)
	}
	if c.Verify {
		t.AppendRow(table.Row{"signature", verifyResult(c.Token, cfg.Key)})
	}
	t.Render()
	return nil
}

func inspectRows(info *token.Info) []table.Row {
	expiresAt := "-"
	if !info.ExpiresAt.IsZero() {
		expiresAt = info.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return []table.Row{
		{"alg", info.Header.Alg},
		{"typ", info.Header.Typ},
		{"client_id", info.Payload.ClientID},
		{"iat", info.Payload.IssuedAt},
		{"exp", info.Payload.ExpireTime},
		{"expires at", expiresAt},
		{"expired", info.Expired},
	}
}

func verifyResult(tok string, k hmac512.Key) string {
	if err := token.Verify(tok, k); err != nil {
		return err.Error()
	}
	return "valid"
}
