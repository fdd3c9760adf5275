package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hsn0918/aip-client/internal/metrics"
)

type fakeService struct {
	tokenCalls atomic.Int32
	tokens     []string
	apiCalls   atomic.Int32
	api        func(w http.ResponseWriter, r *http.Request, body []byte)
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == EndpointToken {
		n := int(f.tokenCalls.Add(1))
		token := f.tokens[min(n, len(f.tokens))-1]
		writeJSONBody(w, http.StatusOK, map[string]any{
			"access_token": token,
			"expires_in":   2592000,
			"scope":        "public brain_all_scope",
		})
		return
	}

	f.apiCalls.Add(1)
	body, _ := io.ReadAll(r.Body)
	f.api(w, r, body)
}

func writeJSONBody(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newHTTPClient(t *testing.T, srv *httptest.Server, opts ...Option) *client {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.URL),
		WithCredentials("ak", "sk"),
		WithLogger(zaptest.NewLogger(t)),
	}
	return NewClient(append(base, opts...)...).(*client)
}

func TestTransport_FormRequestWithToken(t *testing.T) {
	svc := &fakeService{tokens: []string{"tok-1"}}
	svc.api = func(w http.ResponseWriter, r *http.Request, body []byte) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EndpointGeneralBasic, r.URL.Path)
		assert.Equal(t, "tok-1", r.URL.Query().Get(AccessTokenParam))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get(TraceIDHeader))
		assert.Equal(t, "image=aGVsbG8%3D&language_type=CHN_ENG", string(body))

		writeJSONBody(w, http.StatusOK, map[string]any{
			"log_id":           123456789,
			"words_result_num": 1,
			"words_result":     []map[string]string{{"words": "hello"}},
		})
	}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	c := newHTTPClient(t, srv)

	for range 2 {
		resp, err := c.Invoke(context.Background(), "general_basic", BytesSource([]byte("hello")),
			Options{"language_type": "CHN_ENG"})
		require.NoError(t, err)
		assert.Equal(t, "hello", resp.Get("words_result.0.words").String())
		assert.Equal(t, "123456789", resp.LogID())
		assert.NotEmpty(t, resp.TraceID)
	}

	assert.Equal(t, int32(1), svc.tokenCalls.Load())
	assert.Equal(t, int32(2), svc.apiCalls.Load())
}

func TestTransport_JSONEncoding(t *testing.T) {
	svc := &fakeService{tokens: []string{"tok"}}
	svc.api = func(w http.ResponseWriter, r *http.Request, body []byte) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"imgUrl":"https://example.com/a.jpg","scenes":["antiporn","terror"]}`, string(body))
		writeJSONBody(w, http.StatusOK, map[string]any{"log_id": 1, "result": map[string]any{}})
	}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	c := newHTTPClient(t, srv)
	_, err := c.Invoke(context.Background(), "combination", URLSource("https://example.com/a.jpg"),
		Options{"scenes": []string{"antiporn", "terror"}})
	require.NoError(t, err)
}

func TestTransport_RefreshesRejectedToken(t *testing.T) {
	svc := &fakeService{tokens: []string{"stale", "fresh"}}
	svc.api = func(w http.ResponseWriter, r *http.Request, _ []byte) {
		if r.URL.Query().Get(AccessTokenParam) == "stale" {
			writeJSONBody(w, http.StatusOK, map[string]any{"error_code": 110, "error_msg": "Access token invalid or no longer valid"})
			return
		}
		writeJSONBody(w, http.StatusOK, map[string]any{"log_id": 2, "words_result": []any{}})
	}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	reg := prometheus.NewRegistry()
	c := newHTTPClient(t, srv, WithMetrics(metrics.NewCollector("test", reg)))

	resp, err := c.Invoke(context.Background(), "general_basic", URLSource("https://example.com/a.jpg"), nil)
	require.NoError(t, err)
	assert.Equal(t, "2", resp.LogID())
	assert.Equal(t, int32(2), svc.tokenCalls.Load())
	assert.Equal(t, int32(2), svc.apiCalls.Load())
	assert.Equal(t, 2.0, counterValue(t, reg, "test_token_refreshes_total", nil))
}

func TestTransport_StaticTokenIsNotRefreshed(t *testing.T) {
	svc := &fakeService{tokens: []string{"unused"}}
	svc.api = func(w http.ResponseWriter, r *http.Request, _ []byte) {
		assert.Equal(t, "pinned", r.URL.Query().Get(AccessTokenParam))
		writeJSONBody(w, http.StatusOK, map[string]any{"error_code": 111, "error_msg": "Access token expired"})
	}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithAccessToken("pinned")).(*client)

	_, err := c.Invoke(context.Background(), "general_basic", URLSource("https://example.com/a.jpg"), nil)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, int64(CodeExpiredToken), remote.Code)
	assert.Equal(t, int32(0), svc.tokenCalls.Load())
	assert.Equal(t, int32(1), svc.apiCalls.Load())
}

func TestTransport_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSONBody(w, http.StatusUnauthorized, map[string]any{
			"error":             "invalid_client",
			"error_description": "unknown client id",
		})
	}))
	defer srv.Close()

	c := newHTTPClient(t, srv)
	_, err := c.Invoke(context.Background(), "general_basic", URLSource("https://example.com/a.jpg"), nil)
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Contains(t, err.Error(), "invalid_client")
}

func TestTransport_MissingCredentials(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL)).(*client)
	_, err := c.Invoke(context.Background(), "general_basic", URLSource("https://example.com/a.jpg"), nil)
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestTransport_HTTPAndProtocolErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler func(w http.ResponseWriter)
		check   func(t *testing.T, err error)
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				var transportErr *TransportError
				require.ErrorAs(t, err, &transportErr)
				assert.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
				assert.Equal(t, EndpointGeneralBasic, transportErr.Endpoint)
				assert.NotEmpty(t, transportErr.TraceID)
			},
		},
		{
			name: "non json body",
			handler: func(w http.ResponseWriter) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html>maintenance</html>"))
			},
			check: func(t *testing.T, err error) {
				var protoErr *ProtocolError
				require.ErrorAs(t, err, &protoErr)
				assert.Equal(t, EndpointGeneralBasic, protoErr.Operation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{tokens: []string{"tok"}}
			svc.api = func(w http.ResponseWriter, _ *http.Request, _ []byte) { tt.handler(w) }
			srv := httptest.NewServer(svc)
			defer srv.Close()

			c := newHTTPClient(t, srv)
			_, err := c.Invoke(context.Background(), "general_basic", URLSource("https://example.com/a.jpg"), nil)
			tt.check(t, err)
		})
	}
}

func TestTransport_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient(WithBaseURL(addr), WithAccessToken("tok"), WithTimeout(time.Second)).(*client)
	_, err := c.Invoke(context.Background(), "general_basic", URLSource("https://example.com/a.jpg"), nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Error(t, errors.Unwrap(transportErr))
}

func TestTransport_RateLimitHonoursContext(t *testing.T) {
	svc := &fakeService{tokens: []string{"tok"}}
	svc.api = func(w http.ResponseWriter, _ *http.Request, _ []byte) {
		writeJSONBody(w, http.StatusOK, map[string]any{"log_id": 1})
	}
	srv := httptest.NewServer(svc)
	defer srv.Close()

	c := newHTTPClient(t, srv, WithRateLimit(0.5, 1))

	_, err := c.Invoke(context.Background(), "general_basic", URLSource("https://example.com/a.jpg"), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Invoke(ctx, "general_basic", URLSource("https://example.com/a.jpg"), nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), svc.apiCalls.Load())
}

func TestPreOperation(t *testing.T) {
	req := FromURL(EndpointGeneralBasic, FieldURL, "https://example.com/a.jpg", nil)

	out := preOperation(req, "tok", "trace-1")

	assert.Equal(t, url.Values{AccessTokenParam: {"tok"}}, out.Query)
	assert.Equal(t, "trace-1", out.Header.Get(TraceIDHeader))
	assert.Equal(t, "application/json", out.Header.Get("Accept"))
	assert.Equal(t, req.Fields.Keys(), out.Fields.Keys())
	assert.Nil(t, req.Query, "input request must not be mutated")
}

func TestPostOperation(t *testing.T) {
	req := NewRequest(EndpointCensorText).Merge(Options{"text": "a b&c"})

	body, contentType, err := postOperation(req)
	require.NoError(t, err)
	assert.Equal(t, "text=a+b%26c", body)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)

	body, contentType, err = postOperation(req.WithEncoding(EncodingJSON))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"a b&c"}`, body)
	assert.Equal(t, "application/json", contentType)
}
