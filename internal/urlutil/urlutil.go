package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs basic sanity checks on a crawl target URL.
func Validate(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// WithParam returns urlStr with the given query parameter set, replacing
// any existing value. Used by the pagination loops to derive candidate
// page URLs (?page=2, ?p=2, ...).
func WithParam(urlStr, name, value string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}
	query := parsed.Query()
	query.Set(name, value)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// Host returns the lower-cased host portion of a URL, or "" if the URL
// does not parse.
func Host(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
