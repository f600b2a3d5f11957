package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-crm-sync/server/session"
	"github.com/rs/zerolog"
)

const eventsPageSize = 10

// IndexHandler shows the install link, or once authorized the access token
// and the portal's first contact
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := session.FromContext(ctx)

		data := pageData{Authorized: s.tokens.IsAuthorized(ctx, sessionID)}
		if !data.Authorized {
			s.render(w, r, tmpl, http.StatusOK, data)
			return
		}

		accessToken, err := s.tokens.AccessToken(ctx, sessionID)
		if err != nil {
			redirectWithError(w, r, RouteError, errorMessage(err))
			return
		}
		data.AccessToken = tokenPrefix(accessToken)

		contact, err := s.sessionCRM(ctx, sessionID).FirstContact(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Unable to retrieve contact")
			data.Message = errorMessage(err)
		} else {
			data.Contact = contact.FullName()
		}
		s.render(w, r, tmpl, http.StatusOK, data)
	}
}

// EventsHandler lists the first page of the events custom object
func (s *Server) EventsHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("events.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := session.FromContext(ctx)

		data := pageData{Authorized: s.tokens.IsAuthorized(ctx, sessionID)}
		if !data.Authorized {
			s.render(w, r, tmpl, http.StatusOK, data)
			return
		}

		events, err := s.sessionCRM(ctx, sessionID).ListEvents(ctx, eventsPageSize)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Unable to retrieve events")
			data.Message = errorMessage(err)
		}
		data.Events = events
		s.render(w, r, tmpl, http.StatusOK, data)
	}
}

// CustomObjectHandler registers the events custom object schema in the portal
func (s *Server) CustomObjectHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("message.html")
	install := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := session.FromContext(ctx)

		if !s.tokens.IsAuthorized(ctx, sessionID) {
			s.render(w, r, install, http.StatusOK, pageData{})
			return
		}

		schema, err := s.sessionCRM(ctx, sessionID).CreateEventSchema(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("Unable to create custom object")
			s.render(w, r, tmpl, http.StatusBadGateway, pageData{
				Title:   "Unable to create custom object",
				Message: errorMessage(err),
				IsError: true,
			})
			return
		}

		detail, _ := json.MarshalIndent(schema, "", "  ")
		s.render(w, r, tmpl, http.StatusOK, pageData{
			Title:   "Custom object created",
			Message: "Object type " + schema.ObjectTypeID,
			Detail:  string(detail),
		})
	}
}

// ErrorHandler renders the msg query parameter
func (s *Server) ErrorHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("message.html")

	return func(w http.ResponseWriter, r *http.Request) {
		msg := r.URL.Query().Get("msg")
		if msg == "" {
			msg = "Unknown error"
		}
		s.render(w, r, tmpl, http.StatusOK, pageData{Title: "Error", Message: msg, IsError: true})
	}
}
