package http

import (
	"fmt"
	"net/url"
	"strings"
)

// JoinURL concatenates base and path and appends an encoded query.
// base may carry its own path prefix; a trailing slash on base is trimmed.
func JoinURL(base, path, query string) (string, error) {
	raw := strings.TrimRight(base, "/") + path
	if query != "" {
		if strings.Contains(raw, "?") {
			raw += "&" + query
		} else {
			raw += "?" + query
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing scheme or host", raw)
	}

	return u.String(), nil
}
