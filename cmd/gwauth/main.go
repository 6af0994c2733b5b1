package main

import (
	"context"
	"log"

	"github.com/alecthomas/kong"
	"github.com/rinoapp/gwauth/pkg/cli"
	"github.com/rinoapp/gwauth/pkg/clog"
	"github.com/rinoapp/gwauth/pkg/config"
	"github.com/rinoapp/gwauth/pkg/hmac512"
	"github.com/rinoapp/gwauth/pkg/token"
	"go.uber.org/zap"
)

func main() {
	ctx := clog.Context(context.Background())
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %s", err)
	}
	clog.SetLevel(conf.LogLevel)
	clog.Set(ctx, zap.String("client_id", conf.ClientID), zap.Bool("secret_manager", conf.SecretName != ""))

	src, err := conf.SecretSource(ctx)
	if err != nil {
		log.Fatalf("error initializing secret source: %s", err)
	}
	creds, err := conf.Credentials(ctx, src)
	if err != nil {
		clog.Error(ctx, err)
		log.Fatalf("error resolving credentials: %s", err)
	}
	builder, err := token.NewBuilder(creds)
	if err != nil {
		log.Fatalf("error initializing token builder: %s", err)
	}

	kc := kong.Parse(&cli.CLI)
	kc.FatalIfErrorf(kc.Run(&cli.Config{
		Builder:    builder,
		Key:        hmac512.Key(creds.Secret),
		BaseURL:    conf.BaseURL,
		Timeout:    conf.Timeout,
		DeviceID:   conf.DeviceID,
		AppVersion: conf.AppVersion,
	}))
}
