package client

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Response holds a decoded service reply verbatim.
type Response struct {
	TraceID string `json:"-"`
	raw     []byte
}

// NewResponse validates body as JSON and wraps it.
func NewResponse(body []byte) (*Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, &ProtocolError{Operation: "decode response", Detail: "body is not valid JSON"}
	}
	raw := make([]byte, len(body))
	copy(raw, body)
	return &Response{raw: raw}, nil
}

// Raw returns the response body exactly as received.
func (r *Response) Raw() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// Get extracts the value at a gjson path, e.g. "result.0.request_id".
func (r *Response) Get(path string) gjson.Result {
	if r == nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.raw, path)
}

// LogID returns the service-assigned log id, if any.
func (r *Response) LogID() string {
	return r.Get("log_id").String()
}

// RemoteErr returns a *RemoteError when the response carries an error indicator.
// A numeric error_code of 0 is treated as success.
func (r *Response) RemoteErr() error {
	code := r.Get("error_code")
	if !code.Exists() || code.Type == gjson.Null {
		return nil
	}
	if code.Type == gjson.Number && code.Int() == 0 {
		return nil
	}

	remote := &RemoteError{
		Code:     code.Int(),
		CodeRaw:  code.String(),
		Msg:      r.Get("error_msg").String(),
		LogID:    r.LogID(),
		Response: r,
	}
	return remote
}

// Map decodes the response into a generic map.
func (r *Response) Map() (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(r.Raw(), &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// MarshalJSON returns the raw body so responses re-serialize unmodified.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r == nil || len(r.raw) == 0 {
		return []byte("null"), nil
	}
	return r.raw, nil
}

func (r *Response) String() string {
	return string(r.Raw())
}
