package cli

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/rinoapp/gwauth/pkg/hmac512"
	"github.com/rinoapp/gwauth/pkg/sha512"
)

type digestCmd struct {
	Input   string `kong:"arg,optional,help='input to hash; stdin is read when omitted'"`
	HMACKey string `kong:"name='hmac-key',help='compute HMAC-SHA512 under this key instead of a plain digest'"`
}

func (c *digestCmd) Run(cfg *Config) error {
	var h hash.Hash
	if c.HMACKey != "" {
		h = hmac512.New(hmac512.Key(c.HMACKey))
	} else {
		h = sha512.New()
	}

	if c.Input != "" {
		io.WriteString(h, c.Input)
	} else if _, err := io.Copy(h, os.Stdin); err != nil {
		return fmt.Errorf("cli: error reading stdin: %w", err)
	}
	fmt.Println(hex.EncodeToString(h.Sum(nil)))
	return nil
}
