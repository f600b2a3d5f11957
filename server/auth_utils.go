package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-crm-sync/crm"
	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/jrsteele09/go-crm-sync/token"
)

const shownTokenChars = 12

func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	http.Redirect(w, r, path+"?msg="+url.QueryEscape(errorMsg), http.StatusSeeOther)
}

// errorMessage is the text shown to users for err
func errorMessage(err error) string {
	var exErr *token.ExchangeError
	if errors.As(err, &exErr) && exErr.Message() != "" {
		return exErr.Message()
	}
	var apiErr *crm.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, errors.ErrUnauthenticated):
		return "Session is not authorized, install the app again"
	case errors.Is(err, errors.ErrInvalidState):
		return "Invalid or expired state parameter"
	}
	return err.Error()
}

func tokenPrefix(accessToken string) string {
	if len(accessToken) <= shownTokenChars {
		return accessToken
	}
	return accessToken[:shownTokenChars] + "..."
}
