package server

import (
	"net/http"

	"github.com/jrsteele09/go-crm-sync/server/session"
	"github.com/rs/zerolog"
)

// InstallHandler sends the user to the CRM's consent page. The state
// parameter is bound to the browser session.
func (s *Server) InstallHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		state, err := s.state.Issue(session.FromContext(ctx))
		if err != nil {
			logError(r, err)
			http.Error(w, "Failed to start authorization", http.StatusInternalServerError)
			return
		}

		zerolog.Ctx(ctx).Info().Msg("Redirecting user to the CRM OAuth 2.0 server")
		http.Redirect(w, r, s.tokens.AuthCodeURL(state), http.StatusFound)
	}
}

// OAuthCallbackHandler exchanges the authorization code for tokens. Rejections
// from the authorization server are shown on the error page.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := zerolog.Ctx(ctx)
		sessionID := session.FromContext(ctx)

		query := r.URL.Query()
		if errorParam := query.Get("error"); errorParam != "" {
			msg := errorParam
			if desc := query.Get("error_description"); desc != "" {
				msg = desc
			}
			redirectWithError(w, r, RouteError, msg)
			return
		}

		code := query.Get("code")
		if code == "" {
			redirectWithError(w, r, RouteError, "Missing authorization code")
			return
		}

		if err := s.state.Verify(query.Get("state"), sessionID); err != nil {
			logger.Warn().Err(err).Msg("Rejected OAuth callback")
			redirectWithError(w, r, RouteError, errorMessage(err))
			return
		}

		logger.Info().Msg("Received an authorization token")
		if _, err := s.tokens.ExchangeCode(ctx, sessionID, code); err != nil {
			redirectWithError(w, r, RouteError, errorMessage(err))
			return
		}

		redirectSuccess(w, r, RouteIndex)
	}
}
