package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rinoapp/gwauth/pkg/transport"
)

type getCmd struct {
	Path string `kong:"arg,required,help='path relative to the base URL, e.g. /stores'"`
}

func (c *getCmd) Run(cfg *Config) error {
	rt := transport.New(cfg.Builder, &transport.Config{
		DeviceID:   cfg.deviceID(),
		AppVersion: cfg.AppVersion,
	})
	client := transport.NewClient(cfg.BaseURL, rt, cfg.Timeout)

	res, err := client.Get(context.Background(), c.Path)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if _, err := io.Copy(os.Stdout, res.Body); err != nil {
		return fmt.Errorf("cli: error reading response: %w", err)
	}
	if res.StatusCode >= 400 {
		return fmt.Errorf("cli: gateway responded %s", res.Status)
	}
	return nil
}
