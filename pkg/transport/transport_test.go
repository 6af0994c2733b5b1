package transport

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rinoapp/gwauth/pkg/gwauth"
	"github.com/rinoapp/gwauth/pkg/hmac512"
	"github.com/rinoapp/gwauth/pkg/token"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "transport-secret"

type recorder struct {
	sync.Mutex
	headers []http.Header
}

func (r *recorder) handler(w http.ResponseWriter, req *http.Request) {
	r.Lock()
	r.headers = append(r.headers, req.Header.Clone())
	r.Unlock()

	auth := req.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || token.Verify(strings.TrimPrefix(auth, "Bearer "), hmac512.Key(testSecret)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"response_code":200,"response_body":{"path":"` + req.URL.Path + `"}}`))
}

func newBuilder(t *testing.T, now func() time.Time) *token.Builder {
	b, err := token.NewBuilder(&gwauth.Credentials{
		ClientID: gwauth.DefaultClientID,
		Secret:   []byte(testSecret),
		Validity: gwauth.Validity,
	}, token.WithClock(now))
	require.NoError(t, err)
	return b
}

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func TestTransportAttachesFreshToken(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	now := time.Now()
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}

	logger, logs := newObservedLogger()
	client := NewClient(srv.URL+"/api/v1/", New(newBuilder(t, clock), &Config{
		DeviceID:   "device-1",
		AppVersion: "2.0.1",
		Logger:     logger,
	}), 5*time.Second)

	for i := 0; i < 3; i++ {
		res, err := client.Get(context.Background(), "/stores")
		require.NoError(t, err)
		body, err := ioutil.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Contains(t, string(body), `"path":"/api/v1/stores"`)
	}

	require.Len(t, rec.headers, 3)
	seen := map[string]bool{}
	for _, h := range rec.headers {
		require.Equal(t, "device-1", h.Get("X-Device-Id"))
		require.Equal(t, "2.0.1", h.Get("X-App-Version"))
		require.Equal(t, "application/json", h.Get("Accept"))

		auth := h.Get("Authorization")
		require.False(t, seen[auth], "token reused")
		seen[auth] = true
	}

	entries := logs.FilterMessage("outbound request").All()
	require.Len(t, entries, 3)
	require.Equal(t, "/api/v1/stores", entries[0].ContextMap()["request_path"])
	require.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["response_status"])
}

func TestTransportAbortsWhenMintFails(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	logger, logs := newObservedLogger()
	broken := newBuilder(t, func() time.Time { return time.Time{} })
	client := NewClient(srv.URL, New(broken, &Config{Logger: logger}), 5*time.Second)

	res, err := client.Get(context.Background(), "owners")
	require.Nil(t, res)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnauthenticated))
	require.True(t, errors.Is(err, gwauth.ErrClockUnavailable))

	require.Empty(t, rec.headers, "request must not reach the server")

	entries := logs.FilterField(zap.String("request_path", "/owners")).All()
	require.Len(t, entries, 1)
	require.Equal(t, zap.ErrorLevel, entries[0].Level)
}

func TestTransportDoesNotMutateRequest(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	logger, _ := newObservedLogger()
	rt := New(newBuilder(t, time.Now), &Config{DeviceID: "d", Logger: logger})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/plans", nil)
	require.NoError(t, err)
	res, err := rt.RoundTrip(req)
	require.NoError(t, err)
	res.Body.Close()

	require.Empty(t, req.Header.Get("Authorization"))
	require.Empty(t, req.Header.Get("X-Device-Id"))
	require.Len(t, rec.headers, 1)
	require.NotEmpty(t, rec.headers[0].Get("Authorization"))
}

func TestTransportOmitsEmptyOptionalHeaders(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer srv.Close()

	logger, _ := newObservedLogger()
	client := NewClient(srv.URL, New(newBuilder(t, time.Now), &Config{Logger: logger}), 5*time.Second)
	res, err := client.Get(context.Background(), "/versions")
	require.NoError(t, err)
	res.Body.Close()

	require.Len(t, rec.headers, 1)
	_, hasDevice := rec.headers[0]["X-Device-Id"]
	_, hasVersion := rec.headers[0]["X-App-Version"]
	require.False(t, hasDevice)
	require.False(t, hasVersion)
}

func TestAuthError(t *testing.T) {
	err := &AuthError{Err: gwauth.ErrClockUnavailable}
	require.Equal(t, "transport: unable to authenticate request: gwauth: clock unavailable", err.Error())
	require.True(t, errors.Is(err, ErrUnauthenticated))
	require.True(t, errors.Is(err, gwauth.ErrClockUnavailable))
	require.False(t, errors.Is(err, gwauth.ErrEncoding))
}
