// Package utils provides supporting helpers for the pixiv-app-client.
package utils

import (
	"fmt"
	"net/url"
)

// ExtractContinuationParams parses a next_url continuation URL and returns
// the first value of each requested query parameter.
//
// Every key must be present: the server embeds the full parameter set it
// expects back, so a missing key means the continuation URL cannot be
// followed without silently reusing stale parameters.
func ExtractContinuationParams(nextURL string, keys []string) (map[string]string, error) {
	parsed, err := url.Parse(nextURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse continuation URL: %w", err)
	}

	query := parsed.Query()
	params := make(map[string]string, len(keys))
	for _, key := range keys {
		values, ok := query[key]
		if !ok || len(values) == 0 {
			return nil, fmt.Errorf("parameter %q not found in continuation URL query", key)
		}
		params[key] = values[0]
	}

	return params, nil
}
