package associations_test

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/jrsteele09/go-crm-sync/associations"
	"github.com/jrsteele09/go-crm-sync/crm"
	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/stretchr/testify/require"
)

// fakeCRM keeps associations and contact properties in memory.
type fakeCRM struct {
	mu           sync.Mutex
	associations map[string][]string
	events       map[string]crm.Event
	contacts     map[string]map[string]string

	associateCalls []string
	getEventCalls  []string

	listErr      error
	associateErr map[string]error
	getEventErr  map[string]error
	updateErr    error
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		associations: map[string][]string{},
		events: map[string]crm.Event{
			"A": {ID: "A", Name: "Alpha", Date: "2024-01-01"},
			"B": {ID: "B", Name: "Beta", Date: "2024-02-01"},
			"C": {ID: "C", Name: "Gamma", Date: "2024-03-01"},
		},
		contacts:     map[string]map[string]string{},
		associateErr: map[string]error{},
		getEventErr:  map[string]error{},
	}
}

func (f *fakeCRM) ContactEventAssociations(_ context.Context, contactID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.associations[contactID]), nil
}

func (f *fakeCRM) AssociateEvent(_ context.Context, contactID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.associateCalls = append(f.associateCalls, eventID)
	if err := f.associateErr[eventID]; err != nil {
		return err
	}
	f.associations[contactID] = append(f.associations[contactID], eventID)
	return nil
}

func (f *fakeCRM) GetEvent(_ context.Context, eventID string) (*crm.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getEventCalls = append(f.getEventCalls, eventID)
	if err := f.getEventErr[eventID]; err != nil {
		return nil, err
	}
	event, ok := f.events[eventID]
	if !ok {
		return nil, &crm.APIError{Method: "GET", Path: "/events/" + eventID, Status: 404}
	}
	return &event, nil
}

func (f *fakeCRM) UpdateContact(_ context.Context, contactID string, properties map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.contacts[contactID] == nil {
		f.contacts[contactID] = map[string]string{}
	}
	for k, v := range properties {
		f.contacts[contactID][k] = v
	}
	return nil
}

func TestReconcile_CreatesOnlyMissingAssociations(t *testing.T) {
	api := newFakeCRM()
	api.associations["123"] = []string{"A"}
	r := associations.NewReconciler(api)

	result, err := r.Reconcile(context.Background(), "123", []string{"A", "B", "C"})
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"B", "C"}, api.associateCalls)
	require.Equal(t, []string{"B", "C"}, result.Created)
	require.Equal(t, []string{"A"}, result.Existing)
	require.Equal(t, "A", result.FirstEventID)
	require.Equal(t, "C", result.LastEventID)

	require.Equal(t, map[string]string{
		"first_event_id":   "A",
		"first_event_name": "Alpha",
		"first_event_date": "2024-01-01",
		"last_event_id":    "C",
		"last_event_name":  "Gamma",
		"last_event_date":  "2024-03-01",
	}, api.contacts["123"])
}

func TestReconcile_IsIdempotent(t *testing.T) {
	api := newFakeCRM()
	api.associations["123"] = []string{"A"}
	r := associations.NewReconciler(api)
	ctx := context.Background()

	_, err := r.Reconcile(ctx, "123", []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, api.associateCalls, 2)

	result, err := r.Reconcile(ctx, "123", []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, api.associateCalls, 2)
	require.Empty(t, result.Created)
	require.Empty(t, result.LastEventID)
}

func TestReconcile_FirstFallsBackToLastWhenNoneExisted(t *testing.T) {
	api := newFakeCRM()
	r := associations.NewReconciler(api)

	result, err := r.Reconcile(context.Background(), "123", []string{"B"})
	require.NoError(t, err)
	require.Equal(t, "B", result.FirstEventID)
	require.Equal(t, "B", result.LastEventID)
	require.Equal(t, []string{"B"}, api.getEventCalls)

	props := api.contacts["123"]
	require.Equal(t, "B", props["first_event_id"])
	require.Equal(t, "B", props["last_event_id"])
	require.Equal(t, "Beta", props["first_event_name"])
}

func TestReconcile_DropsBlanksAndDuplicates(t *testing.T) {
	api := newFakeCRM()
	r := associations.NewReconciler(api)

	result, err := r.Reconcile(context.Background(), "123", []string{"B", " ", "", "B", "C"})
	require.NoError(t, err)
	require.Equal(t, []string{"B", "C"}, result.Requested)
	require.Len(t, api.associateCalls, 2)
	require.Equal(t, "C", result.LastEventID)
}

func TestReconcile_EmptyRequestIsMalformed(t *testing.T) {
	api := newFakeCRM()
	r := associations.NewReconciler(api)

	_, err := r.Reconcile(context.Background(), "123", nil)
	require.ErrorIs(t, err, errors.ErrMalformedPayload)

	_, err = r.Reconcile(context.Background(), "123", []string{"", " "})
	require.ErrorIs(t, err, errors.ErrMalformedPayload)

	_, err = r.Reconcile(context.Background(), "", []string{"A"})
	require.ErrorIs(t, err, errors.ErrMalformedPayload)
	require.Empty(t, api.associateCalls)
}

func TestReconcile_ListFailureAborts(t *testing.T) {
	api := newFakeCRM()
	api.listErr = &crm.APIError{Method: "GET", Path: "/associations", Status: 500}
	r := associations.NewReconciler(api)

	result, err := r.Reconcile(context.Background(), "123", []string{"A", "B"})
	require.Nil(t, result)
	require.ErrorIs(t, err, errors.ErrUpstreamFetchFailed)
	require.Empty(t, api.associateCalls)
	require.Empty(t, api.getEventCalls)
}

func TestReconcile_PartialFailuresAreJoined(t *testing.T) {
	api := newFakeCRM()
	api.associations["123"] = []string{"A"}
	api.associateErr["B"] = &crm.APIError{Method: "PUT", Path: "/associations/B", Status: 500}
	api.getEventErr["A"] = &crm.APIError{Method: "GET", Path: "/events/A", Status: 502}
	r := associations.NewReconciler(api, associations.WithConcurrency(1))

	result, err := r.Reconcile(context.Background(), "123", []string{"A", "B", "C"})
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrUpstreamWriteFailed)
	require.ErrorIs(t, err, errors.ErrUpstreamFetchFailed)

	require.NotNil(t, result)
	require.Equal(t, []string{"C"}, result.Created)
	require.ElementsMatch(t, []string{"B", "C"}, api.associateCalls)

	// first event could not be loaded, last event still written
	props := api.contacts["123"]
	require.Equal(t, "C", props["last_event_id"])
	require.NotContains(t, props, "first_event_id")
}

func TestReconcile_PropertyUpdateFailure(t *testing.T) {
	api := newFakeCRM()
	api.updateErr = &crm.APIError{Method: "PATCH", Path: "/contacts/123", Status: 400}
	r := associations.NewReconciler(api)

	result, err := r.Reconcile(context.Background(), "123", []string{"A"})
	require.ErrorIs(t, err, errors.ErrUpstreamWriteFailed)
	require.Equal(t, []string{"A"}, result.Created)
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		existing  []string
		want      []string
	}{
		{"keeps requested order", []string{"C", "A", "B"}, []string{"A"}, []string{"C", "B"}},
		{"nothing existing", []string{"A", "B"}, nil, []string{"A", "B"}},
		{"all existing", []string{"A"}, []string{"A", "B"}, []string{}},
		{"nothing requested", nil, []string{"A"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, associations.Difference(tt.requested, tt.existing))
		})
	}
}
