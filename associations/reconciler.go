package associations

import (
	"context"
	"strings"
	"sync"

	"github.com/jrsteele09/go-crm-sync/crm"
	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/jrsteele09/go-crm-sync/internal/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// API is the slice of the CRM client the reconciler drives.
type API interface {
	ContactEventAssociations(ctx context.Context, contactID string) ([]string, error)
	AssociateEvent(ctx context.Context, contactID, eventID string) error
	GetEvent(ctx context.Context, eventID string) (*crm.Event, error)
	UpdateContact(ctx context.Context, contactID string, properties map[string]string) error
}

// Result reports what a reconciliation did.
type Result struct {
	ContactID string
	Requested []string
	Existing  []string
	// Created holds the events whose association create succeeded
	Created      []string
	FirstEventID string
	LastEventID  string
}

type Reconciler struct {
	api         API
	concurrency int
}

type Option func(*Reconciler)

// WithConcurrency bounds the number of association creates in flight.
func WithConcurrency(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func NewReconciler(api API, opts ...Option) *Reconciler {
	r := &Reconciler{api: api, concurrency: 4}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile makes sure the contact is associated with every requested event.
//
// The contact's current associations are listed first (first page only); a
// failure there aborts. Missing associations are then created as one batch and
// the contact's first_event_* and last_event_* properties are written. Failures
// after the listing are collected and returned joined next to a partial Result.
func (r *Reconciler) Reconcile(ctx context.Context, contactID string, requested []string) (*Result, error) {
	requested = dedupe(requested)
	if contactID == "" || len(requested) == 0 {
		metrics.Reconciliations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[Reconciler Reconcile] contact %q requested no events", contactID)
	}

	logger := zerolog.Ctx(ctx).With().Str("contact_id", contactID).Logger()

	existing, err := r.api.ContactEventAssociations(ctx, contactID)
	if err != nil {
		metrics.Reconciliations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, errors.Wrapf(err, "[Reconciler Reconcile] listing associations of contact %s", contactID)
	}

	result := &Result{ContactID: contactID, Requested: requested, Existing: existing}
	newEvents := Difference(requested, existing)
	if len(newEvents) == 0 {
		logger.Debug().Strs("requested", requested).Msg("Contact already associated with every requested event")
		metrics.Reconciliations.WithLabelValues(metrics.OutcomeNoop).Inc()
		return result, nil
	}

	result.LastEventID = newEvents[len(newEvents)-1]
	result.FirstEventID = result.LastEventID
	if len(existing) > 0 {
		result.FirstEventID = existing[0]
	}

	created, createErr := r.createAssociations(ctx, contactID, newEvents)
	result.Created = created
	metrics.AssociationsCreated.Add(float64(len(created)))

	propsErr := r.updateFirstAndLast(ctx, contactID, result.FirstEventID, result.LastEventID)

	err = errors.Join(createErr, propsErr)
	if err != nil {
		metrics.Reconciliations.WithLabelValues(metrics.OutcomePartial).Inc()
		logger.Error().Err(err).Strs("new_events", newEvents).Strs("created", created).Msg("Reconciliation finished with failures")
		return result, err
	}

	metrics.Reconciliations.WithLabelValues(metrics.OutcomeOK).Inc()
	logger.Info().Strs("created", created).Str("first_event_id", result.FirstEventID).
		Str("last_event_id", result.LastEventID).Msg("Reconciled contact event associations")
	return result, nil
}

func (r *Reconciler) createAssociations(ctx context.Context, contactID string, eventIDs []string) ([]string, error) {
	var g errgroup.Group
	g.SetLimit(r.concurrency)

	errs := make([]error, len(eventIDs))
	ok := make([]bool, len(eventIDs))
	for i, eventID := range eventIDs {
		g.Go(func() error {
			if err := r.api.AssociateEvent(ctx, contactID, eventID); err != nil {
				errs[i] = errors.Wrapf(err, "associating event %s", eventID)
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	created := make([]string, 0, len(eventIDs))
	for i, eventID := range eventIDs {
		if ok[i] {
			created = append(created, eventID)
		}
	}
	return created, errors.Join(errs...)
}

func (r *Reconciler) updateFirstAndLast(ctx context.Context, contactID, firstID, lastID string) error {
	events, err := r.fetchEvents(ctx, firstID, lastID)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs = []error{err}
	)
	patch := func(prefix, eventID string) {
		event, found := events[eventID]
		if !found {
			return
		}
		g.Go(func() error {
			props := map[string]string{
				prefix + "_event_id":   eventID,
				prefix + "_event_name": event.Name,
				prefix + "_event_date": event.Date,
			}
			if err := r.api.UpdateContact(ctx, contactID, props); err != nil {
				mu.Lock()
				errs = append(errs, errors.Wrapf(err, "updating %s_event properties", prefix))
				mu.Unlock()
			}
			return nil
		})
	}
	patch("first", firstID)
	patch("last", lastID)
	_ = g.Wait()

	return errors.Join(errs...)
}

// fetchEvents loads each distinct event once. Events that fail to load are
// left out of the map.
func (r *Reconciler) fetchEvents(ctx context.Context, ids ...string) (map[string]*crm.Event, error) {
	ids = dedupe(ids)

	var (
		g      errgroup.Group
		mu     sync.Mutex
		errs   []error
		events = make(map[string]*crm.Event, len(ids))
	)
	for _, id := range ids {
		g.Go(func() error {
			event, err := r.api.GetEvent(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, errors.Wrapf(err, "fetching event %s", id))
				return nil
			}
			events[id] = event
			return nil
		})
	}
	_ = g.Wait()
	return events, errors.Join(errs...)
}

// Difference returns the ids of requested that are not in existing, keeping
// the order of requested.
func Difference(requested, existing []string) []string {
	known := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}
	diff := make([]string, 0, len(requested))
	for _, id := range requested {
		if _, ok := known[id]; !ok {
			diff = append(diff, id)
		}
	}
	return diff
}

// dedupe trims ids, drops blanks and repeats, and keeps first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
