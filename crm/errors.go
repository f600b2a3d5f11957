package crm

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-crm-sync/internal/errors"
)

// APIError describes a failed CRM call. GET failures match
// errors.ErrUpstreamFetchFailed, every other method errors.ErrUpstreamWriteFailed.
type APIError struct {
	Method        string
	Path          string
	Status        int
	Message       string
	CorrelationID string
	Err           error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("crm %s %s", e.Method, e.Path)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	kind := errors.ErrUpstreamWriteFailed
	if e.Method == http.MethodGet {
		kind = errors.ErrUpstreamFetchFailed
	}
	if e.Err == nil {
		return []error{kind}
	}
	return []error{kind, e.Err}
}

// apiErrorBody is the CRM's standard error envelope.
type apiErrorBody struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
	Category      string `json:"category"`
}
