package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	timeoutMessage      = "Request timeout"
	unknownErrorMessage = "Unknown error occurred"

	executeQueryMessage   = "Failed to execute query"
	validateShapesMessage = "Failed to validate shapes"
)

// Error is the single failure shape reported by the client. It covers error
// responses from the endpoint, timeouts, and transport failures. StatusCode
// is zero when no HTTP status applies.
type Error struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Detail     string `json:"detail,omitempty"`

	Err error `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Display returns what a user should see: the endpoint detail when there is
// one, the message otherwise.
func (e *Error) Display() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

func (e *Error) Timeout() bool {
	return e.StatusCode == http.StatusRequestTimeout && e.Message == timeoutMessage
}

// AsError normalizes any error into an *Error. It returns nil for a nil
// error.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	return normalize(err)
}

func normalize(v any) *Error {
	switch e := v.(type) {
	case *Error:
		if e != nil {
			return e
		}
	case error:
		var clientErr *Error
		if errors.As(e, &clientErr) && clientErr != nil {
			return clientErr
		}
		if message := e.Error(); message != "" {
			return &Error{Message: message, Err: e}
		}
		return &Error{Message: unknownErrorMessage, Err: e}
	}
	return &Error{Message: unknownErrorMessage}
}

func timeoutError(err error) *Error {
	return &Error{Message: timeoutMessage, StatusCode: http.StatusRequestTimeout, Err: err}
}

func responseError(resp *http.Response, body []byte, fallback string) *Error {
	detail, ok := parseDetail(body)
	if !ok {
		detail = fmt.Sprintf("HTTP error %d: %s", resp.StatusCode, statusText(resp))
	}

	message := detail
	if message == "" {
		message = fallback
	}

	return &Error{Message: message, StatusCode: resp.StatusCode, Detail: detail}
}

// parseDetail reports false only when body is not JSON at all. A JSON body
// without a usable detail yields an empty detail.
func parseDetail(body []byte) (string, bool) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return "", true
	}

	switch detail := object["detail"].(type) {
	case nil:
		return "", true
	case string:
		return detail, true
	default:
		// FastAPI reports validation failures as a list of objects.
		raw, err := json.Marshal(detail)
		if err != nil {
			return "", true
		}
		return string(raw), true
	}
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
