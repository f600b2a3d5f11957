package errors

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the token manager, the CRM client and the webhook handlers.
var (
	// Authorization server rejected a grant (code or refresh token)
	ErrAuthExchangeFailed = errors.New("auth exchange failed")

	// No refresh token on file for the session
	ErrUnauthenticated = errors.New("unauthenticated")

	// A CRM read (GET) failed
	ErrUpstreamFetchFailed = errors.New("upstream fetch failed")

	// A CRM write (POST/PUT/PATCH) failed
	ErrUpstreamWriteFailed = errors.New("upstream write failed")

	// Inbound payload is missing required fields
	ErrMalformedPayload = errors.New("malformed payload")

	// Store lookups
	ErrNotFound = errors.New("not found")

	ErrInvalidState = errors.New("invalid state")
)

// New returns an error that formats as the given text
func New(text string) error {
	return errors.New(text)
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, nil if all are nil
func Join(errs ...error) error {
	return errors.Join(errs...)
}
