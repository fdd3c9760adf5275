package client

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrMultipleSources  = errors.New("exactly one of data, path or url may be supplied")
	ErrNoSource         = errors.New("input source cannot be empty")
	ErrUnsupportedInput = errors.New("unsupported input")
	ErrMissingField     = errors.New("missing required field")
	ErrUnknownEndpoint  = errors.New("unknown endpoint")
	ErrUnknownFamily    = errors.New("unknown job family")
	ErrEmptyRequestID   = errors.New("request id cannot be empty")
	ErrEmptyDownloadURL = errors.New("download url cannot be empty")
	ErrEmptyPayload     = errors.New("base64 payload cannot be empty")
	ErrNilWriter        = errors.New("writer cannot be nil")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrJobTimeout       = errors.New("job polling timed out")
)

// IOError reports a local file that could not be read. No network call was made.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s failed: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ProtocolError reports a response that does not match the shape expected for the operation.
type ProtocolError struct {
	Operation string
	Path      string
	Detail    string
}

func (e *ProtocolError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: unexpected response: %s", e.Operation, e.Detail)
	}
	return fmt.Sprintf("%s: unexpected response at %q: %s", e.Operation, e.Path, e.Detail)
}

// RemoteError carries the service's own error indicator unmodified.
type RemoteError struct {
	// Code is zero when the service reports a non-numeric code; CodeRaw keeps it verbatim.
	Code     int64
	CodeRaw  string
	Msg      string
	LogID    string
	Response *Response
}

func (e *RemoteError) Error() string {
	logID := normalizeLogID(e.LogID)
	code := e.CodeRaw
	if code == "" {
		code = strconv.FormatInt(e.Code, 10)
	}
	if e.Msg == "" {
		return fmt.Sprintf("api returned error_code %s (log-id: %s)", code, logID)
	}
	return fmt.Sprintf("api returned error_code %s: %s (log-id: %s)", code, e.Msg, logID)
}

// TimeoutError reports that polling was abandoned client-side. The job may still be running remotely.
type TimeoutError struct {
	Family    string
	RequestID string
	Timeout   time.Duration
	Elapsed   time.Duration
	Polls     int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("waiting for %s job %s exceeded %s after %d polls (elapsed %s)",
		e.Family, e.RequestID, e.Timeout, e.Polls, e.Elapsed.Round(time.Millisecond))
}

func (e *TimeoutError) Is(target error) bool { return target == ErrJobTimeout }

// TransportError wraps a network or HTTP-level failure. It is not retried by the job client.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Status     string
	TraceID    string
	Err        error
}

func (e *TransportError) Error() string {
	traceID := normalizeLogID(e.TraceID)
	if e.Err != nil {
		return fmt.Sprintf("request %s failed: %v (trace-id: %s)", e.Endpoint, e.Err, traceID)
	}
	return fmt.Sprintf("request %s failed with status %d: %s (trace-id: %s)", e.Endpoint, e.StatusCode, e.Status, traceID)
}

func (e *TransportError) Unwrap() error { return e.Err }

func normalizeLogID(id string) string {
	if id == "" {
		return "unknown"
	}
	return id
}
