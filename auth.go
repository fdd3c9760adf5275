package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"github.com/hsn0918/aip-client/internal/metrics"
)

// tokenRefreshMargin is subtracted from expires_in so a token is never used at the edge of its lifetime.
const tokenRefreshMargin = 5 * time.Minute

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// tokenSource fetches and caches OAuth client-credential access tokens.
type tokenSource struct {
	http      *resty.Client
	apiKey    string
	secretKey string
	static    string
	metrics   *metrics.Collector
	now       func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
	group  singleflight.Group
}

// Token returns a valid access token, fetching one when the cache is empty or stale.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	if s.static != "" {
		return s.static, nil
	}

	s.mu.Lock()
	if s.token != "" && s.now().Before(s.expiry) {
		token := s.token
		s.mu.Unlock()
		return token, nil
	}
	s.mu.Unlock()

	// The shared fetch outlives any single caller; each waiter gives up on its own ctx.
	ch := s.group.DoChan("token", func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the cached token so the next call refetches it.
func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expiry = time.Time{}
	s.mu.Unlock()
}

func (s *tokenSource) fetch(ctx context.Context) (string, error) {
	if s.apiKey == "" || s.secretKey == "" {
		return "", fmt.Errorf("%w: api key and secret key are required", ErrAuthFailed)
	}

	var result tokenResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     s.apiKey,
			"client_secret": s.secretKey,
		}).
		SetResult(&result).
		SetError(&result).
		Post(EndpointToken)
	if err != nil {
		return "", &TransportError{Endpoint: EndpointToken, Err: err}
	}

	s.metrics.RecordTokenRefresh()

	if result.Error != "" {
		return "", fmt.Errorf("%w: %s: %s", ErrAuthFailed, result.Error, result.ErrorDescription)
	}
	if !resp.IsSuccess() {
		return "", &TransportError{Endpoint: EndpointToken, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}
	if result.AccessToken == "" {
		return "", &ProtocolError{Operation: "fetch access token", Path: "access_token", Detail: "missing"}
	}

	ttl := time.Duration(result.ExpiresIn) * time.Second
	if ttl > 2*tokenRefreshMargin {
		ttl -= tokenRefreshMargin
	}

	s.mu.Lock()
	s.token = result.AccessToken
	s.expiry = s.now().Add(ttl)
	s.mu.Unlock()

	return result.AccessToken, nil
}
