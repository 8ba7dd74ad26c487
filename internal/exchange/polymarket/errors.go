package polymarket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError represents a Polymarket API error with additional context
type APIError struct {
	StatusCode int
	Message    string
	// Transport marks connection-level failures (dial, timeout, truncated body)
	Transport bool
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("polymarket API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("polymarket API error: %s", e.Message)
}

func newAPIError(statusCode int, body []byte) *APIError {
	var parsed apiErrorResponse
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			msg = parsed.Message
		} else if parsed.Error != "" {
			msg = parsed.Error
		}
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// IsRetryableError determines if an API call should be retried
func IsRetryableError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Transport {
		return true
	}
	switch apiErr.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsAuthenticationError checks if the error is related to credentials
func IsAuthenticationError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}
