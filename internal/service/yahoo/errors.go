package yahoo

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	xhttp "github.com/fslick/fundamentals-yf/pkg/http"
)

// ErrNoData is returned when the provider answers but has nothing for the symbol.
var ErrNoData = errors.New("no data")

// APIError is a terminal non-2xx answer from the provider.
type APIError struct {
	Endpoint   string
	Symbol     string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo %s %s: status %d: %s", e.Endpoint, e.Symbol, e.StatusCode, e.Message)
}

// NotFound reports whether the provider does not know the symbol.
func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// RateLimitError reports that retries were exhausted while throttled.
type RateLimitError struct {
	Endpoint   string
	Symbol     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("yahoo %s %s: rate limited, retry after %v", e.Endpoint, e.Symbol, e.RetryAfter)
	}
	return fmt.Sprintf("yahoo %s %s: rate limited", e.Endpoint, e.Symbol)
}

// providerError converts transport-level failures into provider errors.
func providerError(endpoint, symbol string, err error) error {
	var se *xhttp.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("yahoo %s %s: %w", endpoint, symbol, err)
	}
	if se.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Endpoint: endpoint, Symbol: symbol, RetryAfter: se.RetryAfter}
	}
	msg := se.Body
	if desc := errorDescription([]byte(se.Body)); desc != "" {
		msg = desc
	}
	return &APIError{Endpoint: endpoint, Symbol: symbol, StatusCode: se.StatusCode, Message: msg}
}
