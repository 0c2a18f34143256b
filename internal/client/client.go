package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rezonia/evatr-go/internal/model"
)

const (
	DefaultBaseURL   = "https://api.evatr.vies.bzst.de/app"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "evatr-go/1.0"
)

// API paths relative to the base URL
const (
	PathConfirmation   = "/v1/abfrage"
	PathStatusMessages = "/v1/info/statusmeldungen"
	PathMemberStates   = "/v1/info/eu_mitgliedstaaten"
)

// maxErrorBody limits how much of a failed response is kept
const maxErrorBody = 64 << 10

// HTTPDoer performs HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the eVatR REST API.
// It holds no mutable state and is safe for concurrent use
// if the underlying HTTPDoer is.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	userAgent  string
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient HTTPDoer
	baseURL    string
	timeout    time.Duration
	userAgent  string
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(cfg *clientConfig) {
		cfg.httpClient = doer
	}
}

// WithBaseURL sets a custom base URL, e.g. for a staging environment
func WithBaseURL(url string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.baseURL = url
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// It has no effect together with WithHTTPClient.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(cfg *clientConfig) {
		cfg.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.userAgent = ua
	}
}

// NewClient creates a new eVatR client
func NewClient(opts ...ClientOption) *Client {
	cfg := &clientConfig{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		userAgent:  cfg.userAgent,
	}
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// VerifyVatID sends a confirmation query.
// A non-valid status such as VALID_PAST is a normal result, not an error.
func (c *Client) VerifyVatID(ctx context.Context, query model.ConfirmationQuery) (*model.ConfirmationResult, error) {
	var data map[string]any
	if err := c.do(ctx, http.MethodPost, PathConfirmation, query, &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, model.NewDecodeError("", "response body is null", nil)
	}
	return model.DecodeConfirmationResult(data)
}

// StatusMessages returns the service's status message catalog
func (c *Client) StatusMessages(ctx context.Context) ([]model.StatusMessage, error) {
	var items []map[string]any
	if err := c.do(ctx, http.MethodGet, PathStatusMessages, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, model.NewDecodeError("", "response body is null", nil)
	}
	return model.DecodeStatusMessages(items)
}

// MemberStates returns the EU member states known to the service
func (c *Client) MemberStates(ctx context.Context) ([]model.MemberState, error) {
	var items []map[string]any
	if err := c.do(ctx, http.MethodGet, PathMemberStates, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, model.NewDecodeError("", "response body is null", nil)
	}
	return model.DecodeMemberStates(items)
}

// do performs one round trip and decodes a 2xx body into out.
// Failures are returned as *model.Error, malformed success bodies as *model.DecodeError.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return model.NewTransportError(fmt.Errorf("failed to create HTTP request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return classify(&StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       raw,
			BodyErr:    readErr,
		})
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.NewError(model.KindTransport, err.Error(), nil, resp.StatusCode,
			fmt.Errorf("failed to read response: %w", err))
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return model.NewDecodeError("", "malformed response body", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return model.NewDecodeError("", "unexpected data after response body", err)
	}
	return nil
}
