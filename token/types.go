package token

import (
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/jrsteele09/go-crm-sync/internal/utils"
)

// GrantType is the OAuth 2.0 grant sent to the token endpoint.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges the code received on the OAuth callback.
	AuthorizationCodeGrant GrantType = "authorization_code"

	// RefreshTokenGrant mints a new access token from the stored refresh token.
	RefreshTokenGrant GrantType = "refresh_token"
)

// Grant is the proof presented to the authorization server. Client credentials
// and the redirect URI are added by the Manager.
type Grant struct {
	Type         GrantType
	Code         string
	RefreshToken string
}

func (g Grant) form(clientID, clientSecret, redirectURI string) url.Values {
	form := url.Values{}
	form.Set("grant_type", string(g.Type))
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("redirect_uri", redirectURI)
	switch g.Type {
	case AuthorizationCodeGrant:
		form.Set("code", g.Code)
	case RefreshTokenGrant:
		form.Set("refresh_token", g.RefreshToken)
	}
	return form
}

// Pair is the token endpoint's success response.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int    `json:"expires_in"`
	TokenType string `json:"token_type,omitempty"`
}

// ErrorPayload is the authorization server's error body. The CRM reports
// failures through status/message; generic OAuth servers use error/error_description.
type ErrorPayload struct {
	Status           string `json:"status,omitempty"`
	Message          string `json:"message,omitempty"`
	CorrelationID    string `json:"correlationId,omitempty"`
	Category         string `json:"category,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// ExchangeError is returned when the authorization server rejects a grant or
// answers with a body that can't be parsed. It matches errors.ErrAuthExchangeFailed.
type ExchangeError struct {
	GrantType  GrantType
	StatusCode int
	Payload    ErrorPayload
	Err        error
}

func (e *ExchangeError) Error() string {
	msg := fmt.Sprintf("%s exchange failed", e.GrantType)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
	}
	if m := e.Message(); m != "" {
		msg = fmt.Sprintf("%s: %s", msg, m)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExchangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{errors.ErrAuthExchangeFailed}
	}
	return []error{errors.ErrAuthExchangeFailed, e.Err}
}

// Message is the human readable reason, suitable for an error page.
func (e *ExchangeError) Message() string {
	return utils.FirstNonEmpty(e.Payload.Message, e.Payload.ErrorDescription, e.Payload.Error)
}
