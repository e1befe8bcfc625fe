package core

import (
	"context"
	"net/url"
)

// Transport talks to the admin REST API.
// Implementations must abort the call when ctx is canceled and
// return a *RequestError for non-2xx responses.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	Patch(ctx context.Context, path string) ([]byte, error)
}
