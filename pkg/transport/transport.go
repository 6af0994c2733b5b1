// Package transport attaches gateway credentials to outbound HTTP requests.
// A request whose token cannot be minted fails before it is dispatched.
package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/rinoapp/gwauth/pkg/clog"
	"go.opencensus.io/plugin/ochttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var ErrUnauthenticated = errors.New("transport: unable to authenticate request")

// AuthError carries the mint failure that stopped a request.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return ErrUnauthenticated.Error() + ": " + e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == ErrUnauthenticated }

type Config struct {
	// Base defaults to http.DefaultTransport.
	Base       http.RoundTripper
	DeviceID   string
	AppVersion string
	Logger     *zap.Logger
}

// New returns a RoundTripper that asks src for a fresh token on every
// request. src must not cache tokens.
func New(src oauth2.TokenSource, c *Config) http.RoundTripper {
	if c == nil {
		c = &Config{}
	}
	base := c.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := c.Logger
	if logger == nil {
		logger = clog.Logger
	}

	var rt http.RoundTripper = &ochttp.Transport{Base: base}
	rt = &oauth2.Transport{
		Source: tokenSource{src},
		Base:   rt,
	}
	rt = &headerTransport{
		base:       rt,
		deviceID:   c.DeviceID,
		appVersion: c.AppVersion,
	}
	return &loggingTransport{base: rt, logger: logger}
}

type tokenSource struct {
	src oauth2.TokenSource
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, &AuthError{Err: err}
	}
	return t, nil
}

type headerTransport struct {
	base       http.RoundTripper
	deviceID   string
	appVersion string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if t.deviceID != "" {
		req.Header.Set("X-Device-Id", t.deviceID)
	}
	if t.appVersion != "" {
		req.Header.Set("X-App-Version", t.appVersion)
	}
	return t.base.RoundTrip(req)
}

type loggingTransport struct {
	base   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()
	res, err := t.base.RoundTrip(req)
	fields := []zap.Field{
		zap.String("request_method", req.Method),
		zap.String("request_host", req.URL.Host),
		zap.String("request_path", req.URL.Path),
		zap.Duration("response_duration", time.Since(startTime)),
	}
	if err != nil {
		clog.ErrorWithLogger(t.logger, err, fields...)
		return nil, err
	}
	t.logger.Info("outbound request", append(fields, zap.Int("response_status", res.StatusCode))...)
	return res, nil
}
