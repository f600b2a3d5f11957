package server

import (
	"io"
	"net/http"

	"github.com/jrsteele09/go-crm-sync/crm"
	"github.com/jrsteele09/go-crm-sync/internal/metrics"
	"github.com/jrsteele09/go-crm-sync/server/session"
	"github.com/jrsteele09/go-crm-sync/webhook"
	"github.com/rs/zerolog"
)

const (
	maxWebhookBytes = 1 << 20

	webhookAssociations = "associations"
	webhookNewEvent     = "new_event"
)

// AssociationWebhookHandler reconciles a contact's event associations with
// the events_attended value sent by the CRM.
//
// Deliveries are always acknowledged so the CRM does not retry them; failures
// are logged and counted.
func (s *Server) AssociationWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := zerolog.Ctx(ctx)
		defer acknowledge(w)

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook body")
			metrics.Webhooks.WithLabelValues(webhookAssociations, metrics.OutcomeError).Inc()
			return
		}

		req, err := webhook.ParseAssociation(body)
		if err != nil {
			logger.Error().Err(err).Msg("Rejected association webhook")
			metrics.Webhooks.WithLabelValues(webhookAssociations, metrics.OutcomeError).Inc()
			return
		}

		client := s.webhookCRM(ctx, session.FromContext(ctx))
		result, err := s.reconciler(client).Reconcile(ctx, req.ContactID, req.EventIDs)
		switch {
		case err != nil && result == nil:
			logger.Error().Err(err).Str("contact_id", req.ContactID).Msg("Association reconciliation aborted")
			metrics.Webhooks.WithLabelValues(webhookAssociations, metrics.OutcomeError).Inc()
		case err != nil:
			metrics.Webhooks.WithLabelValues(webhookAssociations, metrics.OutcomePartial).Inc()
		default:
			metrics.Webhooks.WithLabelValues(webhookAssociations, metrics.OutcomeOK).Inc()
		}
	}
}

// NewEventWebhookHandler adds a newly created event to the events_attended
// picklist.
func (s *Server) NewEventWebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := zerolog.Ctx(ctx)
		defer acknowledge(w)

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook body")
			metrics.Webhooks.WithLabelValues(webhookNewEvent, metrics.OutcomeError).Inc()
			return
		}

		event, err := webhook.ParseNewEvent(body)
		if err != nil {
			logger.Error().Err(err).Msg("Rejected new event webhook")
			metrics.Webhooks.WithLabelValues(webhookNewEvent, metrics.OutcomeError).Inc()
			return
		}

		client := s.webhookCRM(ctx, session.FromContext(ctx))
		option := crm.PropertyOption{Label: event.Name, Value: event.ID}
		if _, err := s.synchronizer(client).AppendOption(ctx, s.config.GetEventsAttendedProperty(), option); err != nil {
			logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to append event option")
			metrics.Webhooks.WithLabelValues(webhookNewEvent, metrics.OutcomeError).Inc()
			return
		}
		metrics.Webhooks.WithLabelValues(webhookNewEvent, metrics.OutcomeOK).Inc()
	}
}

func acknowledge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("{}"))
}
