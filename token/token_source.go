package token

import (
	"context"

	"golang.org/x/oauth2"
)

type sessionTokenSource struct {
	ctx       context.Context
	manager   *Manager
	sessionID string
}

// TokenSource exposes the session's access token to oauth2.Transport. Each
// Token call goes through AccessToken. The returned token has no Expiry, so
// wrapping the source in oauth2.ReuseTokenSource (as oauth2.NewClient does)
// pins the first token; use it with a bare oauth2.Transport.
func (m *Manager) TokenSource(ctx context.Context, sessionID string) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, manager: m, sessionID: sessionID}
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := s.manager.AccessToken(s.ctx, s.sessionID)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
}
