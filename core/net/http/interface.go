package http

import "context"

// Doer sends an encoded request and returns the fully read response
type Doer interface {
	Do(ctx context.Context, r *Request) (*Response, error)
}

// DoerFunc adapts a function to Doer
type DoerFunc func(ctx context.Context, r *Request) (*Response, error)

// Do calls f(ctx, r)
func (f DoerFunc) Do(ctx context.Context, r *Request) (*Response, error) {
	return f(ctx, r)
}
