package api

import (
	"context"
	"net/http"
	"strings"
)

// Resource is one CRUD collection on the backend.  T is the record the
// backend returns, In the payload it accepts.
type Resource[T any, In any] struct {
	c    *Client
	path string
}

// NewResource binds a collection path (with or without trailing slash) to
// the client.
func NewResource[T any, In any](c *Client, path string) Resource[T, In] {
	return Resource[T, In]{c: c, path: path}
}

// Path returns the collection path as sent to the backend.
func (r Resource[T, In]) Path() string { return r.path }

func (r Resource[T, In]) itemPath(key string) string {
	return strings.TrimSuffix(r.path, "/") + "/" + strings.Trim(key, "/")
}

// List fetches the whole collection.
func (r Resource[T, In]) List(ctx context.Context, token string) ([]T, error) {
	var out []T
	if err := r.c.do(ctx, http.MethodGet, r.path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts a new record and returns the server's representation.
func (r Resource[T, In]) Create(ctx context.Context, token string, in In) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, token, in, &out)
	return out, err
}

// Update replaces the record at key and returns the server's
// representation.
func (r Resource[T, In]) Update(ctx context.Context, token, key string, in In) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, r.itemPath(key), token, in, &out)
	return out, err
}

// Delete removes the record at key.
func (r Resource[T, In]) Delete(ctx context.Context, token, key string) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(key), token, nil, nil)
}
