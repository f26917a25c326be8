package client

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport.  A Timeout set on httpClient
// applies to every call, Screen included, on top of the client's own
// per-attempt bounds.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each attempt of matches, reaction mappings, molecule
// calls and job lookups.  Zero leaves them to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithScreenTimeout bounds each attempt of a synchronous Screen.  A whole
// store screen runs for as long as the server scans, so this is usually
// far above WithTimeout.  Zero leaves it to the caller's context.
func WithScreenTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.screenTimeout = d
		}
	}
}

// WithPollInterval sets how often WaitJob asks for a job's state when it
// is called without an interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithRetryMax sets how often a failed attempt is retried; 0 disables
// retries.  A timed-out attempt counts as failed.
func WithRetryMax(retryMax int) Option {
	return func(c *Client) {
		if retryMax >= 0 {
			c.retryMax = retryMax
		}
	}
}

// WithRetryWait bounds the exponential backoff.  max is ignored when it is
// below min.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		if min > 0 {
			c.retryWaitMin = min
			if max >= min {
				c.retryWaitMax = max
			}
		}
	}
}

// WithUserAgent replaces the molmatch-go-sdk/<version> agent.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

//Personal.AI order the ending
