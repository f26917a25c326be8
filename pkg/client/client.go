// Package client is the Go SDK for the molmatch HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/molmatch/pkg/types/common"
)

const Version = "0.1.0"

// Defaults applied by NewClient.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultScreenTimeout = 10 * time.Minute
	DefaultPollInterval  = 2 * time.Second
)

var (
	// ErrInvalidConfig is returned by NewClient for an unusable base URL.
	ErrInvalidConfig = stderrors.New("molmatch: invalid client configuration")

	// ErrInvalidArgument rejects a call before any request is sent.
	ErrInvalidArgument = stderrors.New("molmatch: invalid argument")
)

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// Client talks to one molmatch API server.  It is safe for concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	apiKey       string
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration

	// per-attempt bounds; screens scan the store and get their own
	timeout       time.Duration
	screenTimeout time.Duration
	pollInterval  time.Duration

	molecules     *MoleculesClient
	moleculesOnce sync.Once
	matching      *MatchingClient
	matchingOnce  sync.Once
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("molmatch: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, msg, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// envelope mirrors common.APIResponse with the payload left undecoded.
type envelope struct {
	Success   bool                `json:"success"`
	Data      json.RawMessage     `json:"data,omitempty"`
	Error     *common.ErrorDetail `json:"error,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// NewClient creates a client for the server at baseURL.  apiKey may be
// empty when the server runs without bearer authentication.
func NewClient(baseURL string, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrInvalidConfig
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid baseURL: %v", ErrInvalidConfig, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: baseURL scheme must be http or https", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		apiKey:        apiKey,
		httpClient:    &http.Client{},
		userAgent:     fmt.Sprintf("molmatch-go-sdk/%s", Version),
		logger:        noopLogger{},
		retryMax:      3,
		retryWaitMin:  500 * time.Millisecond,
		retryWaitMax:  5 * time.Second,
		timeout:       DefaultTimeout,
		screenTimeout: DefaultScreenTimeout,
		pollInterval:  DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Molecules returns the molecule registry sub-client.
func (c *Client) Molecules() *MoleculesClient {
	c.moleculesOnce.Do(func() {
		c.molecules = &MoleculesClient{client: c}
	})
	return c.molecules
}

// Matching returns the search sub-client.
func (c *Client) Matching() *MatchingClient {
	c.matchingOnce.Do(func() {
		c.matching = &MatchingClient{client: c}
	})
	return c.matching
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.New().String()
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	return req, requestID, nil
}

// do performs an HTTP request with retry logic and decodes the data field
// of the response envelope into result.  Each attempt is bounded by timeout.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}, timeout time.Duration) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debugf("Retry attempt %d after %v", attempt, backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		start := time.Now()
		resp, respBody, requestID, err := c.roundTrip(ctx, method, path, payload, timeout)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			c.logger.Errorf("Request failed: %v", err)
			lastErr = err
			continue
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.retryMax {
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				c.logger.Infof("Rate limited, retrying after %d seconds", seconds)
				select {
				case <-time.After(time.Duration(seconds) * time.Second):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}

		if resp.StatusCode >= 400 {
			apiErr := decodeAPIError(resp.StatusCode, requestID, respBody)
			if apiErr.IsServerError() {
				lastErr = apiErr
				continue
			}
			return apiErr
		}

		if result == nil || len(respBody) == 0 {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if len(env.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to unmarshal response data: %w", err)
		}
		return nil
	}
	return lastErr
}

// roundTrip sends one attempt and reads the whole body before the attempt
// deadline is released.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, timeout time.Duration) (*http.Response, []byte, string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	req, requestID, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return nil, nil, "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, requestID, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, requestID, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp, body, requestID, nil
}

// decodeAPIError prefers the server's request ID over the one we sent.
func decodeAPIError(status int, requestID string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	if len(body) == 0 {
		return apiErr
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		apiErr.Message = string(body)
		return apiErr
	}
	apiErr.Code = env.Error.Code
	apiErr.Message = env.Error.Message
	apiErr.Detail = env.Error.Detail
	if env.RequestID != "" {
		apiErr.RequestID = env.RequestID
	}
	return apiErr
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result, c.timeout)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result, c.timeout)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, c.timeout)
}

// location issues a GET without following redirects and returns the
// Location header of a 3xx answer.
func (c *Client) location(ctx context.Context, path string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req, requestID, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	hc := *c.httpClient
	hc.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if loc := resp.Header.Get("Location"); loc != "" {
			return loc, nil
		}
	}
	if resp.StatusCode >= 400 {
		return "", decodeAPIError(resp.StatusCode, requestID, body)
	}
	return "", fmt.Errorf("molmatch: expected a redirect from %s, got HTTP %d", path, resp.StatusCode)
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if backoff > c.retryWaitMax {
		backoff = c.retryWaitMax
	}
	if quarter := int64(backoff / 4); quarter > 0 {
		backoff += time.Duration(rand.Int63n(quarter))
	}
	return backoff
}

//Personal.AI order the ending
