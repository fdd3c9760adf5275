package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hsn0918/aip-client/internal/metrics"
)

// Transport sends a canonical request and returns the decoded reply.
// A reply carrying an error indicator is returned as a Response, not an error.
type Transport interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// preOperation annotates req with authentication and default headers. It never touches Fields.
func preOperation(req Request, token, traceID string) Request {
	out := req.Clone()
	if out.Query == nil {
		out.Query = url.Values{}
	}
	if out.Header == nil {
		out.Header = http.Header{}
	}
	if token != "" {
		out.Query.Set(AccessTokenParam, token)
	}
	out.Header.Set("Accept", "application/json")
	if traceID != "" {
		out.Header.Set(TraceIDHeader, traceID)
	}
	return out
}

// postOperation finalizes the body and content type from the request encoding.
func postOperation(req Request) (body string, contentType string, err error) {
	switch req.Encoding {
	case EncodingJSON:
		raw, err := req.Fields.MarshalJSON()
		if err != nil {
			return "", "", err
		}
		return string(raw), EncodingJSON.ContentType(), nil
	default:
		encoded, err := req.Fields.EncodeForm()
		if err != nil {
			return "", "", err
		}
		return encoded, EncodingForm.ContentType(), nil
	}
}

type httpTransport struct {
	rest    *resty.Client
	tokens  *tokenSource
	limiter *rate.Limiter
	logger  *zap.Logger
	metrics *metrics.Collector
}

var _ Transport = (*httpTransport)(nil)

func (t *httpTransport) Do(ctx context.Context, req Request) (*Response, error) {
	resp, err := t.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if t.tokens.static == "" && isTokenError(resp) {
		t.logger.Info("access token rejected, refreshing",
			zap.String("endpoint", req.Endpoint),
			zap.Int64("error_code", resp.Get("error_code").Int()))
		t.tokens.Invalidate()
		return t.send(ctx, req)
	}

	return resp, nil
}

func (t *httpTransport) send(ctx context.Context, req Request) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait for %s: %w", req.Endpoint, err)
		}
	}

	token, err := t.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	traceID := uuid.NewString()
	out := preOperation(req, token, traceID)
	body, contentType, err := postOperation(out)
	if err != nil {
		return nil, fmt.Errorf("encode request for %s: %w", req.Endpoint, err)
	}

	start := time.Now()
	httpResp, err := t.rest.R().
		SetContext(ctx).
		SetHeaderMultiValues(out.Header).
		SetHeader("Content-Type", contentType).
		SetQueryParamsFromValues(out.Query).
		SetBody(body).
		Post(out.Endpoint)
	elapsed := time.Since(start)

	if err != nil {
		t.metrics.RecordRequest(req.Endpoint, "transport_error", elapsed)
		return nil, &TransportError{Endpoint: req.Endpoint, TraceID: traceID, Err: err}
	}

	if !httpResp.IsSuccess() {
		t.metrics.RecordRequest(req.Endpoint, "http_error", elapsed)
		return nil, &TransportError{
			Endpoint:   req.Endpoint,
			StatusCode: httpResp.StatusCode(),
			Status:     httpResp.Status(),
			TraceID:    traceID,
		}
	}

	resp, err := NewResponse(httpResp.Body())
	if err != nil {
		t.metrics.RecordRequest(req.Endpoint, "protocol_error", elapsed)
		var perr *ProtocolError
		if errors.As(err, &perr) {
			perr.Operation = req.Endpoint
		}
		return nil, err
	}
	resp.TraceID = traceID

	outcome := "success"
	if resp.RemoteErr() != nil {
		outcome = "remote_error"
	}
	t.metrics.RecordRequest(req.Endpoint, outcome, elapsed)

	t.logger.Debug("api call",
		zap.String("endpoint", req.Endpoint),
		zap.String("trace_id", traceID),
		zap.String("log_id", resp.LogID()),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed))

	return resp, nil
}

func isTokenError(resp *Response) bool {
	code := resp.Get("error_code")
	if !code.Exists() {
		return false
	}
	switch code.Int() {
	case CodeInvalidToken, CodeExpiredToken:
		return true
	default:
		return false
	}
}

func newDefaultAPIClient() *resty.Client {
	return resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(DefaultTimeout)
}

func newTransferClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)
}
