// Package http is a small fluent JSON client used by the command-line API
// client.
//
//	resp, err := http.Get(base + "/products").
//	    Timeout(5 * time.Second).
//	    Retry(3, 500*time.Millisecond).
//	    Send()
//
//	var products []models.Product
//	err = resp.JSON(&products)
//
// Only transport failures are retried, and only for idempotent methods:
// POST and PATCH are sent once, since a timed-out write may still have been
// applied. Any response, whatever its status, ends the attempt loop.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	gohttp "net/http"
	"time"

	"github.com/shashiranjanraj/products/pkg/logger"
	"github.com/shashiranjanraj/products/pkg/reqid"
	"github.com/shashiranjanraj/products/pkg/retry"
)

var defaultTransport = &gohttp.Transport{
	Proxy:               gohttp.ProxyFromEnvironment,
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is shared by every request. Tests can swap its Transport:
//
//	http.DefaultClient.Transport = fake
//	defer http.ResetTransport()
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// Request is a fluent HTTP request builder.
type Request struct {
	method  string
	url     string
	headers map[string]string
	body    interface{}
	timeout time.Duration
	policy  retry.Policy
	ctx     context.Context
}

func Get(url string) *Request    { return newRequest(gohttp.MethodGet, url) }
func Post(url string) *Request   { return newRequest(gohttp.MethodPost, url) }
func Put(url string) *Request    { return newRequest(gohttp.MethodPut, url) }
func Delete(url string) *Request { return newRequest(gohttp.MethodDelete, url) }

func newRequest(method, url string) *Request {
	return &Request{
		method:  method,
		url:     url,
		headers: map[string]string{"Accept": "application/json"},
		timeout: 30 * time.Second,
		policy:  retry.Exponential(1, 500*time.Millisecond),
		ctx:     context.Background(),
	}
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Body sets the request body. Strings and byte slices are sent raw,
// anything else is marshalled to JSON.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry makes n attempts in total, doubling wait after each failure.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	r.policy = retry.Exponential(n, wait).WithSleeper(r.policy.Sleeper)
	return r
}

// Policy replaces the retry policy wholesale.
func (r *Request) Policy(p retry.Policy) *Request {
	r.policy = p
	return r
}

// WithContext sets the parent context. A request ID stored in it is
// forwarded as X-Request-ID.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send executes the request and returns a Response.
func (r *Request) Send() (*Response, error) {
	body, contentType, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	policy := r.policy
	if !idempotent(r.method) {
		policy.MaxAttempts = 1
	}

	var resp *Response
	err = policy.Do(r.ctx, func(ctx context.Context, attempt int) error {
		var sendErr error
		resp, sendErr = r.do(ctx, body, contentType)
		if sendErr != nil && attempt < policy.Attempts() {
			logger.WithCtx(ctx).Warn("http: request failed, retrying",
				"method", r.method, "url", r.url, "attempt", attempt,
				"backoff", policy.Backoff(attempt), "error", sendErr)
		}
		return sendErr
	})
	if err != nil {
		return nil, fmt.Errorf("http: %s %s: %w", r.method, r.url, err)
	}
	return resp, nil
}

func idempotent(method string) bool {
	switch method {
	case gohttp.MethodGet, gohttp.MethodHead, gohttp.MethodOptions,
		gohttp.MethodPut, gohttp.MethodDelete:
		return true
	}
	return false
}

func (r *Request) do(parent context.Context, body []byte, contentType string) (*Response, error) {
	ctx, cancel := context.WithTimeout(parent, r.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if id := reqid.FromCtx(parent); id != "" {
		req.Header.Set(reqid.Header, id)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Raw: raw}, nil
}

func (r *Request) buildBody() ([]byte, string, error) {
	switch v := r.body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(v), "text/plain", nil
	case []byte:
		return v, "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return b, "application/json", nil
	}
}

// Response wraps the HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Raw)
}

// Throw returns an error if the response status is not 2xx.
func (r *Response) Throw() error {
	if !r.OK() {
		return fmt.Errorf("http: request failed with status %d: %s", r.StatusCode, string(r.Raw))
	}
	return nil
}
