package middleware

import (
	"net/http"
	"time"
)

// Timeout bounds the whole request, which also caps every external store
// call made under the request context.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	message := `{"error":{"code":"UNAVAILABLE","message":"request timed out"}}`

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, message)
	}
}
