package errors

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateSource validates a dataset source, which is either an http(s)
// URL or a local file path.
func ValidateSource(src string) error {
	if src == "" {
		return New(ErrCodeInvalidDataset, "dataset source cannot be empty")
	}
	if strings.Contains(src, "://") {
		return ValidateURL(src)
	}
	for _, r := range src {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "dataset path contains invalid characters")
		}
	}
	return nil
}

// ValidateDuration rejects negative durations. Zero is valid and means
// "snap on the next frame".
func ValidateDuration(d time.Duration) error {
	if d < 0 {
		return New(ErrCodeInvalidInput, "duration must not be negative: %s", d)
	}
	return nil
}

// ValidateCount rejects negative item counts.
func ValidateCount(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "item count must not be negative: %d", n)
	}
	return nil
}

// ValidateFPS rejects frame rates that cannot drive a ticker.
func ValidateFPS(fps float64) error {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return New(ErrCodeInvalidInput, "fps must be a positive number: %v", fps)
	}
	return nil
}

// ValidateFormat checks format against the allowed set.
func ValidateFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}
