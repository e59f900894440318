package http

import (
	"bytes"
	"context"
	"io"
	"maps"
	"net/http"
	"sync"
	"time"
)

const (
	// Buffer pool constants
	defaultBufferSize = 4096
	maxBufferSize     = 1024 * 1024 // 1MB
)

// Request is a fully encoded outgoing request
type Request struct {
	Method string
	URL    string
	Header map[string]string
	Body   []byte
}

// Response holds the status, headers and the fully read body of a response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// Client is an HTTP client that reads response bodies into pooled buffers
type Client struct {
	client     *http.Client
	bufferPool sync.Pool
}

// Option configures the HTTP client
type Option func(*Client)

// WithClient sets a custom HTTP client
func WithClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout sets the overall timeout of the underlying HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// New creates a new HTTP client
func New(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{},
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do sends the request and reads the whole response body.
// Only network or body-read failures are returned as errors; any status code is a Response.
func (c *Client) Do(ctx context.Context, r *Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	buf := c.getBuffer()
	defer c.putBuffer(buf)

	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       bytes.Clone(buf.Bytes()),
		Duration:   time.Since(start),
	}, nil
}

// getBuffer retrieves a buffer from the pool
func (c *Client) getBuffer() *bytes.Buffer {
	buf := c.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool, with size check to prevent memory leaks
func (c *Client) putBuffer(buf *bytes.Buffer) {
	if buf.Cap() <= maxBufferSize {
		c.bufferPool.Put(buf)
	}
}

// NewRequest builds a Request with a copy of the given headers
func NewRequest(method, url string, header map[string]string, body []byte) *Request {
	h := make(map[string]string, len(header)+2)
	maps.Copy(h, header)
	return &Request{Method: method, URL: url, Header: h, Body: body}
}
