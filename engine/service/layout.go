package service

import (
	"context"
	"encoding/json"
	"net/http"
)

// LayoutClient round-trips the opaque serialized world-layout blob. Used at
// session start and end, never during the live reconciliation loop.
type LayoutClient struct {
	*Client
}

// NewLayoutClient creates a layout persistence client.
func NewLayoutClient(baseURL string) *LayoutClient {
	return &LayoutClient{Client: NewClient(baseURL)}
}

// Get fetches the stored layout blob; a 404 returns an *APIError the caller
// can treat as "no layout yet".
func (c *LayoutClient) Get(ctx context.Context) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, "v0/layout", nil)
}

// Put stores the layout blob.
func (c *LayoutClient) Put(ctx context.Context, blob []byte) error {
	_, err := c.doRaw(ctx, http.MethodPut, "v0/layout", json.RawMessage(blob))
	return err
}
