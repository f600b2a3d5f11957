package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jrsteele09/go-crm-sync/internal/metrics"
	"github.com/jrsteele09/go-crm-sync/server/session"
)

func (s *Server) initRoutes() {
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.LoggingMiddleware,
		middleware.Recoverer,
		s.FrameSecurityMiddleware,
		middleware.Timeout(s.config.GetRequestTimeout()),
		session.Middleware,
	)

	s.RegisterRouteFunc(http.MethodGet, RouteIndex, s.IndexHandler())
	s.RegisterRouteFunc(http.MethodGet, RouteInstall, s.InstallHandler())
	s.RegisterRouteFunc(http.MethodGet, RouteOAuthCallback, s.OAuthCallbackHandler())

	s.RegisterRouteFunc(http.MethodGet, RouteEvents, s.EventsHandler())
	s.RegisterRouteFunc(http.MethodGet, RouteCustomObject, s.CustomObjectHandler())

	s.RegisterRouteFunc(http.MethodPost, RouteWebhookAssociations, s.AssociationWebhookHandler())
	s.RegisterRouteFunc(http.MethodPost, RouteWebhookNewEvent, s.NewEventWebhookHandler())

	s.RegisterRouteFunc(http.MethodGet, RouteError, s.ErrorHandler())
	s.RegisterRouteHandler(http.MethodGet, RouteMetrics, metrics.Handler())

	s.RegisterRouteFunc(http.MethodGet, RouteStaticCSS, s.serveFileHandler())
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := "css/" + chi.URLParam(r, "file")
		if err := StreamFile(w, r, filePath); err != nil {
			logError(r, err)
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
