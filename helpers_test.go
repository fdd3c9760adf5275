package client

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedTransport answers requests from a handler and records every call.
type scriptedTransport struct {
	mu      sync.Mutex
	calls   []Request
	handler func(n int, req Request) (*Response, error)
}

func (s *scriptedTransport) Do(_ context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	n := len(s.calls)
	s.mu.Unlock()
	return s.handler(n, req)
}

func (s *scriptedTransport) count(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Endpoint == endpoint {
			n++
		}
	}
	return n
}

func (s *scriptedTransport) last(endpoint string) Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if s.calls[i].Endpoint == endpoint {
			return s.calls[i]
		}
	}
	return Request{}
}

func mustResponse(t testing.TB, body string) *Response {
	t.Helper()
	resp, err := NewResponse([]byte(body))
	require.NoError(t, err)
	return resp
}

func newTestClient(t *testing.T, tr Transport, opts ...Option) *client {
	t.Helper()
	base := []Option{WithTransport(tr), WithLogger(zaptest.NewLogger(t))}
	return NewClient(append(base, opts...)...).(*client)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok {
			if v != lp.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(labels)
}
