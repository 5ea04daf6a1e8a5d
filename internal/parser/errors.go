package parser

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrEmptyResponse is returned when a provider answers without any content.
var ErrEmptyResponse = errors.New("empty response from provider")

// ErrTruncated is returned when the provider stopped at its output token limit.
var ErrTruncated = errors.New("output truncated at token limit")

// RateLimitError indicates a provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. retryAfterSecs <= 0 means 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader reads a Retry-After header given in seconds.
// Anything else yields 0.
func ParseRetryAfterHeader(val string) int {
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

// StatusError builds the error for a non-200 provider response, promoting
// 429 to a RateLimitError.
func StatusError(provider string, status int, body []byte, retryAfter string) error {
	baseErr := fmt.Errorf("%s API error (status %d): %s", provider, status, truncate(string(body), 500))
	if status == http.StatusTooManyRequests {
		return NewRateLimitError(provider, baseErr, ParseRetryAfterHeader(retryAfter))
	}
	return baseErr
}
