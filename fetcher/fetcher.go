// Package fetcher issues single GET requests with per-tier timeouts, headers and status rules
package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"siteintel/config"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/net/html/charset"
)

// ErrTooManyRedirects is returned when a tier's redirect cap is exceeded
var ErrTooManyRedirects = errors.New("too many redirects")

// StatusError reports a response whose status the tier does not accept
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}

// Tier describes how one class of request is issued
type Tier struct {
	Name         string
	Timeout      time.Duration
	Headers      map[string]string
	MaxRedirects int
	AcceptStatus func(code int) bool
}

// Accept2xx is the default status rule
func Accept2xx(code int) bool { return code >= 200 && code < 300 }

// AcceptBelow400 accepts any non-error status
func AcceptBelow400(code int) bool { return code < 400 }

// TierFromConfig builds a Tier from its configuration entry
func TierFromConfig(name string, tc config.TierConfig) Tier {
	accept := Accept2xx
	if tc.LooseStatus {
		accept = AcceptBelow400
	}
	return Tier{
		Name:         name,
		Timeout:      tc.Timeout,
		Headers:      tc.Headers,
		MaxRedirects: tc.MaxRedirects,
		AcceptStatus: accept,
	}
}

// Response is a fully read and decoded HTTP response
type Response struct {
	URL        string // final URL after redirects
	StatusCode int
	Header     http.Header
	Body       string
}

// Client performs tiered fetches over a shared transport
type Client struct {
	transport    http.RoundTripper
	maxBodyBytes int64
}

// Option configures a Client
type Option func(*Client)

// WithTransport replaces the underlying round tripper
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithMaxBodyBytes caps how much of each body is read, 0 means unlimited
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) { c.maxBodyBytes = n }
}

// New creates a new Client
func New(opts ...Option) *Client {
	c := &Client{
		transport:    http.DefaultTransport,
		maxBodyBytes: 2 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch issues one GET for rawURL using the tier's timeout, headers, redirect cap and status rule.
// It never retries.
func (c *Client) Fetch(ctx context.Context, rawURL string, tier Tier) (*Response, error) {
	if tier.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tier.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range tier.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")

	client := &http.Client{Transport: c.transport}
	if tier.MaxRedirects > 0 {
		limit := tier.MaxRedirects
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) > limit {
				return ErrTooManyRedirects
			}
			return nil
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	accept := tier.AcceptStatus
	if accept == nil {
		accept = Accept2xx
	}
	if !accept(resp.StatusCode) {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := c.readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", rawURL, err)
	}

	return &Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) readBody(resp *http.Response) (string, error) {
	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	case "deflate":
		flateReader := flate.NewReader(resp.Body)
		defer flateReader.Close()
		reader = flateReader
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "zstd":
		zstdReader, err := zstd.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zstdReader.Close()
		reader = zstdReader
	default:
		reader = resp.Body
	}

	if c.maxBodyBytes > 0 {
		reader = io.LimitReader(reader, c.maxBodyBytes)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return decodeCharset(body, resp.Header.Get("Content-Type"))
}

// decodeCharset transcodes body to UTF-8. A charset from the Content-Type header or a
// BOM wins; otherwise a body that is valid UTF-8 as a whole is kept as is, since
// sniffing only sees the first KiB.
func decodeCharset(body []byte, contentType string) (string, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(trimPartialRune(body))) {
		return string(body), nil
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s body: %w", name, err)
	}
	return string(decoded), nil
}

// trimPartialRune drops a rune cut in half by the body limit
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}
