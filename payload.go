package client

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// DecodeBase64Field decodes a base64 string found at path in resp, such as a rendered
// image or audio clip. A data URI prefix is accepted.
func DecodeBase64Field(resp *Response, path string) ([]byte, error) {
	value := resp.Get(path)
	if !value.Exists() || value.Type == gjson.Null {
		return nil, &ProtocolError{Operation: "decode base64", Path: path, Detail: "field missing"}
	}
	if value.Type != gjson.String {
		return nil, &ProtocolError{Operation: "decode base64", Path: path, Detail: "field is not a string"}
	}

	data, err := decodeBase64Payload(stripDataURI(strings.TrimSpace(value.String())))
	if err != nil {
		return nil, fmt.Errorf("decode %s failed: %w", path, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	return data, nil
}

func stripDataURI(value string) string {
	if !strings.HasPrefix(value, "data:") {
		return value
	}

	idx := strings.Index(value, "base64,")
	if idx == -1 {
		return value
	}

	return value[idx+len("base64,"):]
}

func decodeBase64Payload(payload string) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}

	data, rawErr := base64.RawStdEncoding.DecodeString(payload)
	if rawErr == nil {
		return data, nil
	}

	return nil, err
}
