package client

import (
	"context"
	"fmt"
)

// Invoke builds the request for the named endpoint from src and params and sends it.
// A reply carrying error_code is returned as *RemoteError.
func (c *client) Invoke(ctx context.Context, endpoint string, src Source, params Options) (*Response, error) {
	ep, err := c.catalog.Lookup(endpoint)
	if err != nil {
		return nil, err
	}

	req, err := ep.BuildRequest(src, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	return c.Send(ctx, req)
}

// Send transmits a prepared request.
func (c *client) Send(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := resp.RemoteErr(); err != nil {
		return resp, err
	}

	return resp, nil
}

// Endpoints lists the catalog sorted by name.
func (c *client) Endpoints() []Endpoint {
	return c.catalog.List()
}

// Lookup returns the descriptor for endpoint.
func (c *client) Lookup(endpoint string) (Endpoint, error) {
	return c.catalog.Lookup(endpoint)
}
