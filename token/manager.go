package token

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-crm-sync/internal/config"
	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/jrsteele09/go-crm-sync/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	// Access tokens are cached for this fraction of expires_in so they are
	// renewed before the authorization server starts rejecting them.
	accessTokenTTLFraction = 0.75

	lockStripes      = 64
	maxResponseBytes = 1 << 20
)

// Manager runs the token lifecycle for browser sessions: authorization-code
// exchange, refresh-token exchange and transparent access-token renewal.
//
// Operations for the same session are serialized so concurrent requests never
// race on a refresh.
type Manager struct {
	store      Store
	config     config.OAuthConfig
	httpClient *http.Client
	oauth      *oauth2.Config
	locks      [lockStripes]sync.Mutex
}

type ManagerOption func(*Manager)

// WithHTTPClient sets the client used to reach the token endpoint.
func WithHTTPClient(client *http.Client) ManagerOption {
	return func(m *Manager) {
		m.httpClient = client
	}
}

func NewManager(store Store, cfg config.OAuthConfig, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:      store,
		config:     cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		oauth: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			RedirectURL:  cfg.GetRedirectURI(),
			Scopes:       cfg.GetScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.GetAuthorizeURL(),
				TokenURL:  cfg.GetTokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AuthCodeURL is the consent page the user is sent to when installing the app.
func (m *Manager) AuthCodeURL(state string) string {
	return m.oauth.AuthCodeURL(state)
}

// ExchangeCode trades the authorization code from the OAuth callback for tokens.
func (m *Manager) ExchangeCode(ctx context.Context, sessionID, code string) (string, error) {
	return m.Exchange(ctx, sessionID, Grant{Type: AuthorizationCodeGrant, Code: code})
}

// Exchange sends the grant to the token endpoint. On success the refresh token
// replaces any stored value and the access token is cached for 75% of its
// lifetime. Rejections come back as *ExchangeError carrying the server's payload.
func (m *Manager) Exchange(ctx context.Context, sessionID string, grant Grant) (string, error) {
	l := m.lock(sessionID)
	l.Lock()
	defer l.Unlock()
	return m.exchange(ctx, sessionID, grant)
}

// Refresh exchanges the session's stored refresh token for a new access token.
// Fails with errors.ErrUnauthenticated, without contacting the server, when no
// refresh token is on file.
func (m *Manager) Refresh(ctx context.Context, sessionID string) (string, error) {
	l := m.lock(sessionID)
	l.Lock()
	defer l.Unlock()
	return m.refresh(ctx, sessionID)
}

// AccessToken returns the cached access token, refreshing it synchronously
// when the cache entry is missing or expired.
func (m *Manager) AccessToken(ctx context.Context, sessionID string) (string, error) {
	if token, err := m.cachedAccessToken(ctx, sessionID); err != nil || token != "" {
		return token, err
	}

	l := m.lock(sessionID)
	l.Lock()
	defer l.Unlock()

	// Another request may have refreshed while we waited for the lock
	if token, err := m.cachedAccessToken(ctx, sessionID); err != nil || token != "" {
		return token, err
	}

	zerolog.Ctx(ctx).Debug().Msg("Refreshing expired access token")
	return m.refresh(ctx, sessionID)
}

// IsAuthorized reports whether a refresh token is on file for the session.
func (m *Manager) IsAuthorized(ctx context.Context, sessionID string) bool {
	refreshToken, err := m.store.RefreshToken(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to look up refresh token")
		}
		return false
	}
	return refreshToken != ""
}

func (m *Manager) cachedAccessToken(ctx context.Context, sessionID string) (string, error) {
	token, err := m.store.AccessToken(ctx, sessionID)
	if errors.Is(err, errors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "[Manager AccessToken] token store")
	}
	return token, nil
}

func (m *Manager) refresh(ctx context.Context, sessionID string) (string, error) {
	refreshToken, err := m.store.RefreshToken(ctx, sessionID)
	if errors.Is(err, errors.ErrNotFound) || (err == nil && refreshToken == "") {
		return "", errors.Wrapf(errors.ErrUnauthenticated, "[Manager Refresh] no refresh token on file")
	}
	if err != nil {
		return "", errors.Wrapf(err, "[Manager Refresh] token store")
	}
	return m.exchange(ctx, sessionID, Grant{Type: RefreshTokenGrant, RefreshToken: refreshToken})
}

func (m *Manager) exchange(ctx context.Context, sessionID string, grant Grant) (string, error) {
	logger := zerolog.Ctx(ctx)

	pair, err := m.requestTokens(ctx, grant)
	if err != nil {
		metrics.TokenExchanges.WithLabelValues(string(grant.Type), metrics.OutcomeError).Inc()
		logger.Error().Err(err).Str("grant_type", string(grant.Type)).Msg("Error exchanging grant for access token")
		return "", err
	}

	if err := m.store.Put(ctx, sessionID, *pair, AccessTokenTTL(pair.ExpiresIn)); err != nil {
		metrics.TokenExchanges.WithLabelValues(string(grant.Type), metrics.OutcomeError).Inc()
		return "", errors.Wrapf(err, "[Manager Exchange] failed to store tokens")
	}

	metrics.TokenExchanges.WithLabelValues(string(grant.Type), metrics.OutcomeOK).Inc()
	logger.Info().Str("grant_type", string(grant.Type)).Int("expires_in", pair.ExpiresIn).Msg("Received an access token and refresh token")
	return pair.AccessToken, nil
}

func (m *Manager) requestTokens(ctx context.Context, grant Grant) (*Pair, error) {
	form := grant.form(m.config.GetClientID(), m.config.GetClientSecret(), m.config.GetRedirectURI())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.GetTokenURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ExchangeError{GrantType: grant.Type, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &ExchangeError{GrantType: grant.Type, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ExchangeError{GrantType: grant.Type, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		exErr := &ExchangeError{GrantType: grant.Type, StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, &exErr.Payload); err != nil {
			exErr.Payload.Message = strings.TrimSpace(string(body))
		}
		return nil, exErr
	}

	var pair Pair
	if err := json.Unmarshal(body, &pair); err != nil {
		return nil, &ExchangeError{GrantType: grant.Type, StatusCode: resp.StatusCode, Err: err,
			Payload: ErrorPayload{Message: "malformed token response"}}
	}
	if pair.AccessToken == "" {
		return nil, &ExchangeError{GrantType: grant.Type, StatusCode: resp.StatusCode,
			Payload: ErrorPayload{Message: "token response has no access_token"}}
	}
	return &pair, nil
}

func (m *Manager) lock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return &m.locks[h.Sum32()%lockStripes]
}

// AccessTokenTTL is how long an access token issued with expiresIn seconds of
// lifetime stays in the cache: round(expiresIn * 0.75) seconds.
func AccessTokenTTL(expiresIn int) time.Duration {
	return time.Duration(math.Round(float64(expiresIn)*accessTokenTTLFraction)) * time.Second
}
