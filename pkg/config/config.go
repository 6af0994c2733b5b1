// Package config loads the gateway client settings from the environment,
// reading a .env file in the working directory first when one exists.
package config

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rinoapp/gwauth/pkg/gwauth"
	"github.com/rinoapp/gwauth/pkg/secrets"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/errors/fmt"
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	ClientID     string        `env:"GWAUTH_CLIENT_ID" envDefault:"sme-web-app"`
	SharedSecret string        `env:"GWAUTH_SHARED_SECRET"`
	SecretName   string        `env:"GWAUTH_SECRET_NAME"`
	BaseURL      string        `env:"GWAUTH_BASE_URL" envDefault:"https://api.rino.co.tz/api/v1"`
	Timeout      time.Duration `env:"GWAUTH_TIMEOUT" envDefault:"20s"`
	DeviceID     string        `env:"GWAUTH_DEVICE_ID"`
	AppVersion   string        `env:"GWAUTH_APP_VERSION"`
	LogLevel     zapcore.Level `env:"GWAUTH_LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: error reading .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses environ instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	c := &Config{}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return nil, fmt.Errorf("config: %v: %w", err, ErrInvalid)
	}
	if c.SharedSecret == "" {
		c.SharedSecret = gwauth.DefaultSharedSecret
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("config: base URL %q must be an absolute http(s) URL: %w", c.BaseURL, ErrInvalid)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout %v must be positive: %w", c.Timeout, ErrInvalid)
	}
	return nil
}

// SecretSource prefers Secret Manager when a secret name is configured.
func (c *Config) SecretSource(ctx context.Context) (secrets.Source, error) {
	if c.SecretName == "" {
		return secrets.Static(c.SharedSecret), nil
	}
	client, err := secrets.Dial(ctx)
	if err != nil {
		return nil, err
	}
	return secrets.NewSecretManager(client, c.SecretName), nil
}

// Credentials resolves the secret from src and validates the result.
func (c *Config) Credentials(ctx context.Context, src secrets.Source) (*gwauth.Credentials, error) {
	secret, err := src.Secret(ctx)
	if err != nil {
		return nil, fmt.Errorf("config: error resolving shared secret: %w", err)
	}
	creds := &gwauth.Credentials{
		ClientID: c.ClientID,
		Secret:   secret,
		Validity: gwauth.Validity,
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return creds, nil
}
