package teamsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds reported in ErrorResponse.Error.
const (
	ErrorKindUnauthorized  = "unauthorized"
	ErrorKindNotFound      = "not_found"
	ErrorKindExpired       = "expired"
	ErrorKindConflict      = "conflict"
	ErrorKindLimitExceeded = "limit_exceeded"
	ErrorKindValidation    = "validation_error"
	ErrorKindInternal      = "internal"
	ErrorKindRateLimited   = "rate_limit_exceeded"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int
	Kind        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Description)
}

// parseErrorResponse builds an APIError from an error body, falling back to
// the status text when the body is not the expected JSON.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Kind:        ErrorKindInternal,
			Description: http.StatusText(resp.StatusCode),
		}
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Kind:        er.Error,
		Description: er.ErrorDescription,
	}
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
