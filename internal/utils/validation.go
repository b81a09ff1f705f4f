package utils

import (
	"fmt"
	"net/url"
	"time"
)

// ValidateBaseURL checks that raw is an absolute http(s) URL
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL '%s': %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL '%s': scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL '%s': missing host", raw)
	}
	return nil
}

// ParseDurationSetting parses a Go duration string such as "3s".
// Empty returns fallback; zero and negative values are rejected.
func ParseDurationSetting(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s': expected a value like 3s or 500ms", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration '%s': must be positive", raw)
	}
	return d, nil
}
