package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSource_CachesUntilMargin(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointToken, r.URL.Path)
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "ak", r.URL.Query().Get("client_id"))
		assert.Equal(t, "sk", r.URL.Query().Get("client_secret"))

		n := calls.Add(1)
		writeJSONBody(w, http.StatusOK, map[string]any{
			"access_token": map[int32]string{1: "first", 2: "second"}[n],
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src := &tokenSource{
		http:      resty.New().SetBaseURL(srv.URL),
		apiKey:    "ak",
		secretKey: "sk",
		now:       func() time.Time { return now },
	}

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)

	now = now.Add(54 * time.Minute)
	token, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(2 * time.Minute)
	token, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", token)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSource_Invalidate(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSONBody(w, http.StatusOK, map[string]any{"access_token": "tok", "expires_in": 2592000})
	}))
	defer srv.Close()

	src := &tokenSource{http: resty.New().SetBaseURL(srv.URL), apiKey: "ak", secretKey: "sk", now: time.Now}

	_, err := src.Token(context.Background())
	require.NoError(t, err)
	src.Invalidate()
	_, err = src.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenSource_MissingAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONBody(w, http.StatusOK, map[string]any{"expires_in": 10})
	}))
	defer srv.Close()

	src := &tokenSource{http: resty.New().SetBaseURL(srv.URL), apiKey: "ak", secretKey: "sk", now: time.Now}

	_, err := src.Token(context.Background())
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestTokenSource_Static(t *testing.T) {
	src := &tokenSource{static: "pinned", now: time.Now}

	token, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pinned", token)
}

func TestTokenSource_CancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		writeJSONBody(w, http.StatusOK, map[string]any{"access_token": "shared", "expires_in": 3600})
	}))
	defer srv.Close()

	src := &tokenSource{
		http:      resty.New().SetBaseURL(srv.URL),
		apiKey:    "ak",
		secretKey: "sk",
		now:       time.Now,
	}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := src.Token(ctx)
		firstErr <- err
	}()
	<-started

	type result struct {
		token string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		token, err := src.Token(context.Background())
		second <- result{token, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, "shared", got.token)
	assert.Equal(t, int32(1), calls.Load())
}
