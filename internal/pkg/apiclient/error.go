package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx backend response with a human-readable message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// AsAPIError unwraps err into an *APIError if possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// messageFields is the priority order for pulling a message out of a
// structured error body. The backend is not consistent about which one it
// uses.
var messageFields = []string{"message", "msg", "error", "text"}

// ExtractMessage pulls a display message from whatever the backend sent:
// a JSON object with one of several message fields, a bare JSON string,
// raw body text, or finally the standard status text.
func ExtractMessage(body []byte, status int) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return http.StatusText(status)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, field := range messageFields {
			raw, ok := obj[field]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
				return s
			}
		}
		return http.StatusText(status)
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil && strings.TrimSpace(s) != "" {
		return s
	}
	return trimmed
}
