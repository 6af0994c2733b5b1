package cli

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rinoapp/gwauth/pkg/hmac512"
	"github.com/rinoapp/gwauth/pkg/sha512"
	"github.com/rinoapp/gwauth/pkg/token"
	"golang.org/x/sync/errgroup"
)

var errSelftestFailed = errors.New("cli: self-test failed")

type vector struct {
	name string
	key  []byte
	msg  []byte
	want string
}

func (v *vector) check() error {
	var got []byte
	if v.key == nil {
		sum := sha512.Sum512(v.msg)
		got = sum[:]
	} else {
		sum := hmac512.Sum(v.key, v.msg)
		got = sum[:]
	}
	want, err := hex.DecodeString(v.want)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("got %x", got)
	}
	return nil
}

var vectors = []*vector{
	{
		name: "sha512 empty",
		msg:  []byte{},
		want: "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
	},
	{
		name: "sha512 abc",
		msg:  []byte("abc"),
		want: "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
	},
	{
		name: "hmac rfc4231 case 1",
		key:  bytes.Repeat([]byte{0x0b}, 20),
		msg:  []byte("Hi There"),
		want: "87aa7cdea5ef619d4ff0b4241a1d6cb02379f4e2ce4ec2787ad0b30545e17cdedaa833b7d6b8a702038b274eaea3f4e4be9d914eeb61f1702e696c203a126854",
	},
	{
		name: "hmac rfc4231 case 2",
		key:  []byte("Jefe"),
		msg:  []byte("what do ya want for nothing?"),
		want: "164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea2505549758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737",
	},
}

type selftestCmd struct{}

func (c *selftestCmd) Run(cfg *Config) error {
	results := make([]error, len(vectors)+1)
	var g errgroup.Group
	for i, v := range vectors {
		i, v := i, v
		g.Go(func() error {
			results[i] = v.check()
			return nil
		})
	}
	g.Go(func() error {
		results[len(vectors)] = checkRoundTrip(cfg)
		return nil
	})
	g.Wait()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Check", "Result"})
	failed := false
	for i, err := range results {
		name := "token round trip"
		if i < len(vectors) {
			name = vectors[i].name
		}
		res := "ok"
		if err != nil {
			res = err.Error()
			failed = true
		}
		t.AppendRow(table.Row{name, res})
	}
	t.Render()

	if failed {
		return errSelftestFailed
	}
	return nil
}

// checkRoundTrip mints with the configured credentials and verifies the
// result under the same key.
func checkRoundTrip(cfg *Config) error {
	tok, err := cfg.Builder.Generate()
	if err != nil {
		return err
	}
	if err := token.Verify(tok, cfg.Key); err != nil {
		return err
	}
	if token.Expired(tok, cfg.now()) {
		return errors.New("fresh token is already expired")
	}
	return nil
}
