package gatesdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/cohortgate/pkg/httpx"
)

// Messages the server returns. Callers should branch on StatusCode; these
// exist so both sides agree on the wording.
const (
	MessageUnauthorized     = "unauthorized"
	MessageInvalidLogin     = "invalid name or secret"
	MessageServerError      = "internal server error"
	MessageInvalidBody      = "invalid request body"
	MessageServiceNotReady  = "service not ready"
	MessageMethodNotAllowed = "method not allowed"
)

// APIError is the error body of every endpoint: {"error": "..."}.
// The server writes it and the SDK parses it back.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gate: %d %s", e.StatusCode, e.Message)
}

// WriteError writes the error as a JSON response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Message)
}

// NewAPIError builds an APIError.
func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

var (
	ErrUnauthorized = NewAPIError(http.StatusUnauthorized, MessageUnauthorized)
	ErrInvalidLogin = NewAPIError(http.StatusUnauthorized, MessageInvalidLogin)
	ErrServerError  = NewAPIError(http.StatusInternalServerError, MessageServerError)
	ErrInvalidBody  = NewAPIError(http.StatusBadRequest, MessageInvalidBody)
)

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies
// that are not the usual shape fall back to the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
