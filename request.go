package client

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Encoding selects how request fields are serialized on the wire.
type Encoding int

const (
	EncodingForm Encoding = iota
	EncodingJSON
)

func (e Encoding) String() string {
	switch e {
	case EncodingForm:
		return "form"
	case EncodingJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ContentType returns the MIME type used for the encoded body.
func (e Encoding) ContentType() string {
	if e == EncodingJSON {
		return "application/json"
	}
	return "application/x-www-form-urlencoded"
}

// Options carries caller-supplied optional parameters. Keys are passed through uninterpreted.
type Options map[string]any

// Fields is an insertion-ordered field map.
type Fields struct {
	keys   []string
	values map[string]any
}

// NewFields returns an empty field map.
func NewFields() *Fields {
	return &Fields{values: make(map[string]any)}
}

// Set stores value under key. An existing key keeps its original position.
func (f *Fields) Set(key string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value stored under key.
func (f *Fields) Get(key string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// Keys returns field names in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)
	return keys
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Clone returns a copy that can be modified independently.
func (f *Fields) Clone() *Fields {
	clone := NewFields()
	if f == nil {
		return clone
	}
	for _, k := range f.keys {
		clone.Set(k, f.values[k])
	}
	return clone
}

// EncodeForm renders the fields as application/x-www-form-urlencoded in insertion order.
func (f *Fields) EncodeForm() (string, error) {
	var buf strings.Builder
	for i, k := range f.Keys() {
		value, err := formValue(f.values[k])
		if err != nil {
			return "", fmt.Errorf("encode field %s: %w", k, err)
		}
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(k))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(value))
	}
	return buf.String(), nil
}

// MarshalJSON renders the fields as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func formValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case []byte:
		return base64.StdEncoding.EncodeToString(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int32:
		return strconv.FormatInt(int64(val), 10), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

// Request is the canonical form every input variant converges to before transport.
type Request struct {
	Endpoint string
	Fields   *Fields
	Encoding Encoding

	// Query and Header are populated by the transport hooks only.
	Query  url.Values
	Header http.Header
}

// Clone returns a deep copy of the request.
func (r Request) Clone() Request {
	out := Request{
		Endpoint: r.Endpoint,
		Fields:   r.Fields.Clone(),
		Encoding: r.Encoding,
	}
	if r.Query != nil {
		out.Query = make(url.Values, len(r.Query))
		for k, v := range r.Query {
			out.Query[k] = append([]string(nil), v...)
		}
	}
	if r.Header != nil {
		out.Header = r.Header.Clone()
	}
	return out
}

// Merge adds extra verbatim, in sorted key order. A nil or empty map is a no-op.
func (r Request) Merge(extra Options) Request {
	out := r.Clone()
	if len(extra) == 0 {
		return out
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.Fields.Set(k, extra[k])
	}
	return out
}

// WithEncoding returns a copy of the request using enc.
func (r Request) WithEncoding(enc Encoding) Request {
	out := r.Clone()
	out.Encoding = enc
	return out
}

// NewRequest returns an empty form-encoded request for endpoint.
func NewRequest(endpoint string) Request {
	return Request{Endpoint: endpoint, Fields: NewFields(), Encoding: EncodingForm}
}

// FromBytes base64-encodes payload into field and merges extra.
func FromBytes(endpoint, field string, payload []byte, extra Options) Request {
	req := NewRequest(endpoint)
	req.Fields.Set(field, base64.StdEncoding.EncodeToString(payload))
	return req.Merge(extra)
}

// FromFile reads path fully and delegates to FromBytes.
func FromFile(endpoint, field, path string, extra Options) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, &IOError{Path: path, Err: err}
	}
	return FromBytes(endpoint, field, data, extra), nil
}

// FromURL places rawURL into field without any local I/O.
func FromURL(endpoint, field, rawURL string, extra Options) Request {
	req := NewRequest(endpoint)
	req.Fields.Set(field, rawURL)
	return req.Merge(extra)
}
