package providers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrEmptyImage is returned when a provider is handed no image bytes.
	ErrEmptyImage = errors.New("image is required")

	// ErrInvalidImage is returned when the page image cannot be decoded or
	// the requested region does not overlap it.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidResponse is returned when a model reply still fails its
	// schema after every repair attempt.
	ErrInvalidResponse = errors.New("invalid structured response")
)

// IsPermanent reports whether err will recur when the same call is retried.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrEmptyImage) ||
		errors.Is(err, ErrInvalidImage) ||
		errors.Is(err, ErrInvalidResponse)
}

// RateLimitError reports a 429 from an upstream API.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
	StatusCode int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// IsRateLimitError unwraps err looking for a RateLimitError.
func IsRateLimitError(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// parseRetryAfter reads a Retry-After header in seconds or HTTP-date form.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
