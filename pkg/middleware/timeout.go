package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hello-sparql/explorer/pkg/client"
)

const timeoutMessage = "Request timed out"

// Timeout bounds a whole request. A request that runs out of time gets a 503
// with the same error body a failed query gets.
func Timeout(timeout time.Duration) Middleware {
	body, err := json.Marshal(&client.Error{
		Message:    timeoutMessage,
		StatusCode: http.StatusServiceUnavailable,
	})
	if err != nil {
		body = []byte(timeoutMessage)
	}

	return func(h http.Handler) http.Handler {
		return http.TimeoutHandler(h, timeout, string(body))
	}
}
