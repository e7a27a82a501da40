// Package client talks to a remote SPARQL endpoint. Every failure, whether
// an error response, a timeout, or a transport problem, is reported as an
// *Error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hello-sparql/explorer/pkg/models"
	"github.com/hello-sparql/explorer/pkg/version"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second

	EndpointEnvVar = "SPARQL_ENDPOINT"

	connectTimeout = 5 * time.Second
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

type Config struct {
	// BaseURL falls back to the SPARQL_ENDPOINT environment variable and
	// then to DefaultBaseURL.
	BaseURL string
	// Timeout bounds a whole call. Zero or negative selects DefaultTimeout.
	Timeout time.Duration
}

type Client struct {
	baseURL   string
	timeout   time.Duration
	userAgent string

	client Doer
}

type Option func(*Client)

func WithHTTPClient(client Doer) Option {
	return func(c *Client) {
		c.client = client
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

func New(cfg Config, options ...Option) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EndpointEnvVar)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
		userAgent: version.UserAgent(),
	}

	c.client = &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: connectTimeout,
			}).DialContext,
		},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// ExecuteQuery runs one query against {baseURL}/sparql. The returned error,
// when not nil, is always an *Error.
func (c *Client) ExecuteQuery(ctx context.Context, request models.QueryRequest, format models.Format) (response *models.QueryResponse, err error) {
	defer recoverError(&err)

	body, err := c.post(ctx, "/sparql", request, format, executeQueryMessage)
	if err != nil {
		return nil, err
	}

	var payload models.QueryResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, AsError(err)
	}

	return &payload, nil
}

// ValidateShapes runs a SHACL validation against {baseURL}/shacl and returns
// the serialized validation report as sent by the endpoint.
func (c *Client) ValidateShapes(ctx context.Context, request models.ShapesRequest, format models.Format) (report string, err error) {
	defer recoverError(&err)

	body, err := c.post(ctx, "/shacl", request, format, validateShapesMessage)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// HealthCheck reports whether {baseURL}/health answers with a 2xx status.
// Failures of any kind are reported as false.
func (c *Client) HealthCheck(ctx context.Context) (healthy bool) {
	defer func() {
		if r := recover(); r != nil {
			healthy = false
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, resp.Body)

	return success(resp.StatusCode)
}

func (c *Client) post(ctx context.Context, path string, payload any, format models.Format, fallback string) ([]byte, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, AsError(fmt.Errorf("unable to marshal request: %w", err))
	}

	// Cancelled on return, so a settled call never leaves a pending timer.
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(content))
	if err != nil {
		return nil, AsError(err)
	}
	req.Header.Set("Accept", format.AcceptHeader())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(parent, ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(parent, ctx, err)
	}

	if !success(resp.StatusCode) {
		return nil, responseError(resp, body, fallback)
	}

	return body, nil
}

// transportError reports a timeout only when the client's own timer fired.
// A deadline or cancellation of the caller is a plain failure.
func transportError(parent, ctx context.Context, err error) *Error {
	if parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeoutError(err)
	}
	return AsError(err)
}

func recoverError(err *error) {
	if r := recover(); r != nil {
		*err = normalize(r)
	}
}

func success(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
