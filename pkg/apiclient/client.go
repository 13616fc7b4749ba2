// Package apiclient talks to a running products service over HTTP.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shashiranjanraj/products/app/models"
	"github.com/shashiranjanraj/products/app/repositories"
	"github.com/shashiranjanraj/products/pkg/http"
	"github.com/shashiranjanraj/products/pkg/retry"
)

// ErrNoBaseURL is returned by New when no API URL could be resolved.
var ErrNoBaseURL = errors.New("apiclient: no API base URL configured")

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d (%s): %s", e.Status, e.Kind, e.Message)
}

type Client struct {
	base    string
	timeout time.Duration
	policy  retry.Policy
}

// Option customises a Client.
type Option func(*Client)

func WithTimeout(d time.Duration) Option { return func(c *Client) { c.timeout = d } }

func WithRetry(p retry.Policy) Option { return func(c *Client) { c.policy = p } }

// New builds a client for baseURL, usually clientcfg.APIURL(...).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("apiclient: base URL: %w", err)
	}

	c := &Client{
		base:    baseURL,
		timeout: 10 * time.Second,
		policy:  retry.Exponential(3, 200*time.Millisecond),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) List(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := c.send(ctx, http.Get(c.url("/products")), &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, in models.ProductInput) (repositories.WriteResult, error) {
	var out repositories.WriteResult
	err := c.send(ctx, http.Post(c.url("/products")).Body(in), &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id string, in models.ProductInput) (repositories.WriteResult, error) {
	var out repositories.WriteResult
	err := c.send(ctx, http.Put(c.url("/products/"+url.PathEscape(id))).Body(in), &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id string) (repositories.WriteResult, error) {
	var out repositories.WriteResult
	err := c.send(ctx, http.Delete(c.url("/products/"+url.PathEscape(id))), &out)
	return out, err
}

func (c *Client) url(path string) string { return c.base + path }

func (c *Client) send(ctx context.Context, req *http.Request, dest interface{}) error {
	resp, err := req.WithContext(ctx).Timeout(c.timeout).Policy(c.policy).Send()
	if err != nil {
		return err
	}

	if !resp.OK() {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(resp.Text())}
		var body struct {
			Error     string `json:"error"`
			ErrorKind string `json:"errorKind"`
		}
		if resp.JSON(&body) == nil && body.Error != "" {
			apiErr.Kind = body.ErrorKind
			apiErr.Message = body.Error
		}
		return apiErr
	}

	return resp.JSON(dest)
}
