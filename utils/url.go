package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned when a URL has no usable scheme or host
var ErrMalformedURL = errors.New("malformed URL")

// Origin returns the scheme://host[:port] origin of an absolute URL.
// Default ports are dropped and the host is lowercased.
func Origin(rawURL string) (string, error) {
	parsedURL, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" || parsedURL.Hostname() == "" {
		return "", fmt.Errorf("%w: %q is not absolute", ErrMalformedURL, rawURL)
	}
	return originOf(parsedURL), nil
}

func originOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	return scheme + "://" + host
}

// ResolveSameOrigin resolves href against origin and reports whether the
// result shares that origin. Unparseable hrefs are rejected.
func ResolveSameOrigin(origin, href string) (string, bool) {
	base, err := url.Parse(origin + "/")
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Host == "" || originOf(resolved) != origin {
		return "", false
	}
	return resolved.String(), true
}
