package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-crm-sync/associations"
	"github.com/jrsteele09/go-crm-sync/crm"
	"github.com/jrsteele09/go-crm-sync/internal/config"
	"github.com/jrsteele09/go-crm-sync/properties"
	"github.com/jrsteele09/go-crm-sync/server/oauthstate"
	"github.com/jrsteele09/go-crm-sync/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	router     chi.Router
	routes     []string
	config     config.Config
	tokens     *token.Manager
	state      *oauthstate.Signer
	httpClient *http.Client
}

type Option func(*Server)

// WithHTTPClient sets the base client used for CRM calls. The OAuth transport
// is layered on top of it.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Server) {
		s.httpClient = client
	}
}

func New(config config.Config, tokens *token.Manager, opts ...Option) (*Server, error) {
	state, err := oauthstate.NewSigner(config.GetClientSecret(), config.GetStateTimeout())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create state signer: %w", err)
	}

	s := &Server{
		env:        config.GetEnv(),
		router:     chi.NewRouter(),
		config:     config,
		tokens:     tokens,
		state:      state,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(method, pattern string, handler http.Handler) {
	s.routes = append(s.routes, method+" "+pattern)
	s.router.Method(method, pattern, handler)
}

func (s *Server) RegisterRouteFunc(method, pattern string, handler http.HandlerFunc) {
	s.RegisterRouteHandler(method, pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		var method, path string
		if _, err := fmt.Sscanf(route, "%s %s", &method, &path); err != nil {
			continue
		}
		log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
	}
}

// sessionCRM is a CRM client acting with the session's OAuth access token.
func (s *Server) sessionCRM(ctx context.Context, sessionID string) *crm.Client {
	return s.crmClient(ctx, s.tokens.TokenSource(ctx, sessionID))
}

// webhookCRM is the client for webhook deliveries. The CRM calls those
// without a browser session, so the private-app token is used when one is
// configured.
func (s *Server) webhookCRM(ctx context.Context, sessionID string) *crm.Client {
	if key := s.config.GetAPIKey(); key != "" {
		return s.crmClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: key, TokenType: "Bearer"}))
	}
	return s.sessionCRM(ctx, sessionID)
}

// crmClient skips oauth2.NewClient, whose ReuseTokenSource would pin a token
// without an Expiry for the client's lifetime.
func (s *Server) crmClient(_ context.Context, ts oauth2.TokenSource) *crm.Client {
	client := &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: s.httpClient.Transport},
		Timeout:   s.httpClient.Timeout,
	}
	return crm.New(client, s.config)
}

func (s *Server) reconciler(client *crm.Client) *associations.Reconciler {
	return associations.NewReconciler(client, associations.WithConcurrency(s.config.GetCRMConcurrency()))
}

func (s *Server) synchronizer(client *crm.Client) *properties.Synchronizer {
	return properties.NewSynchronizer(client)
}
