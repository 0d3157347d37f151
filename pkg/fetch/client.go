// Package fetch downloads page and manifest text over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bugmaschine/generic/pkg/logger"
	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeout     = 20 * time.Second
	DefaultMaxBodySize = 8 << 20
)

// Config configures a Client. Zero values select the defaults.
type Config struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int64
	// LimitRate caps the read rate in bytes per second, 0 means unlimited.
	LimitRate float64
	// Impersonate uses a Chrome TLS fingerprint for https requests.
	Impersonate bool
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

// Client fetches text documents with a browser user agent.
type Client struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
	maxBody   int64
}

func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}

	var rLimit *rate.Limiter
	if cfg.LimitRate > 0 {
		rLimit = rate.NewLimiter(rate.Limit(cfg.LimitRate), max(int(cfg.LimitRate), 1))
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.Impersonate {
		transport = newUTLSRoundTripper(cfg.Timeout)
	}

	return &Client{
		client:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		limiter:   rLimit,
		maxBody:   cfg.MaxBodySize,
	}
}

// Fetch returns the body of rawURL as text. The Referer header is taken from
// ctx, see WithReferer.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if ref := RefererFrom(ctx); ref != "" {
		req.Header.Set("Referer", ref)
	}

	slog.Log(ctx, logger.LevelTrace, "Fetching", "url", rawURL)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: rawURL, Status: resp.StatusCode}
	}

	var reader io.Reader = io.LimitReader(resp.Body, c.maxBody)
	if c.limiter != nil {
		reader = &rateLimitedReader{
			r:       reader,
			limiter: c.limiter,
			ctx:     ctx,
		}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	return string(body), nil
}

type refererKey struct{}

// WithReferer returns a context whose fetches send referer.
func WithReferer(ctx context.Context, referer string) context.Context {
	return context.WithValue(ctx, refererKey{}, referer)
}

func RefererFrom(ctx context.Context) string {
	ref, _ := ctx.Value(refererKey{}).(string)
	return ref
}
