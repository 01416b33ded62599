package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateBaseURL trims and validates a backend base URL, returning it
// without a trailing slash. Only http and https are accepted.
func ValidateBaseURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL scheme %q: use http or https", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL: missing host")
	}
	return strings.TrimRight(s, "/"), nil
}
