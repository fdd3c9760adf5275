package client

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// DownloadFile fetches a result file, such as a table Excel link, into memory.
func (c *client) DownloadFile(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrEmptyDownloadURL
	}
	url = normalizeDownloadURL(url)

	resp, err := c.transferClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file from %s failed: %w", url, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("download file failed with status %d: %s", resp.StatusCode(), resp.Status())
	}

	data := resp.Body()
	if len(data) == 0 {
		return nil, fmt.Errorf("downloaded file is empty")
	}

	return data, nil
}

// DownloadFileTo streams a result file into dst without buffering it in memory.
func (c *client) DownloadFileTo(ctx context.Context, url string, dst io.Writer) error {
	if dst == nil {
		return ErrNilWriter
	}
	if url == "" {
		return ErrEmptyDownloadURL
	}
	url = normalizeDownloadURL(url)

	resp, err := c.transferClient.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return fmt.Errorf("download file from %s failed: %w", url, err)
	}

	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return fmt.Errorf("download file failed with status %d: %s", resp.StatusCode(), resp.Status())
	}

	n, err := io.Copy(dst, body)
	if err != nil {
		return fmt.Errorf("write downloaded file failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("downloaded file is empty")
	}
	return nil
}

// result links are sometimes returned with JSON-escaped ampersands
func normalizeDownloadURL(url string) string {
	return strings.ReplaceAll(url, "\\u0026", "&")
}
