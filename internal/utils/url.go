package utils

import (
	"net/url"
	"strings"
)

// ValidateURL validates that a URL has an http(s) scheme and a host
func ValidateURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	return true
}

// JoinURLPath appends a path suffix to a base URL without doubling slashes
func JoinURLPath(baseURL, suffix string) string {
	if suffix == "" {
		return baseURL
	}
	switch {
	case strings.HasSuffix(baseURL, "/") && strings.HasPrefix(suffix, "/"):
		return baseURL + suffix[1:]
	case !strings.HasSuffix(baseURL, "/") && !strings.HasPrefix(suffix, "/"):
		return baseURL + "/" + suffix
	default:
		return baseURL + suffix
	}
}

// ExtractHost extracts the host from a URL
func ExtractHost(rawURL string) string {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}
