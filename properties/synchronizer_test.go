package properties_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-crm-sync/crm"
	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/jrsteele09/go-crm-sync/properties"
	"github.com/stretchr/testify/require"
)

type fakePropertyAPI struct {
	property   *crm.Property
	getErr     error
	replaceErr error
	written    []crm.PropertyOption
	writes     int
}

func (f *fakePropertyAPI) GetProperty(_ context.Context, name string) (*crm.Property, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p := *f.property
	p.Name = name
	return &p, nil
}

func (f *fakePropertyAPI) ReplacePropertyOptions(_ context.Context, _ string, options []crm.PropertyOption) (*crm.Property, error) {
	f.writes++
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	f.written = options
	return &crm.Property{Type: crm.EnumerationType, Options: options}, nil
}

func TestAppendOption(t *testing.T) {
	api := &fakePropertyAPI{property: &crm.Property{
		Type:    crm.EnumerationType,
		Options: []crm.PropertyOption{{Label: "X", Value: "X", DisplayOrder: 3, Hidden: true}},
	}}
	s := properties.NewSynchronizer(api)

	options, err := s.AppendOption(context.Background(), "events_attended", crm.PropertyOption{Label: "Y", Value: "Y"})
	require.NoError(t, err)

	want := []crm.PropertyOption{
		{Label: "X", Value: "X", DisplayOrder: -1, Hidden: false},
		{Label: "Y", Value: "Y", DisplayOrder: -1, Hidden: false},
	}
	require.Equal(t, want, options)
	require.Equal(t, want, api.written)
}

func TestAppendOption_EmptyList(t *testing.T) {
	api := &fakePropertyAPI{property: &crm.Property{Type: crm.EnumerationType}}
	s := properties.NewSynchronizer(api)

	options, err := s.AppendOption(context.Background(), "events_attended", crm.PropertyOption{Label: "Launch", Value: "42"})
	require.NoError(t, err)
	require.Equal(t, []crm.PropertyOption{{Label: "Launch", Value: "42", DisplayOrder: -1}}, options)
}

func TestAppendOption_RejectsNonEnumeration(t *testing.T) {
	api := &fakePropertyAPI{property: &crm.Property{Type: "string"}}
	s := properties.NewSynchronizer(api)

	_, err := s.AppendOption(context.Background(), "email", crm.PropertyOption{Label: "Y", Value: "Y"})
	require.ErrorIs(t, err, errors.ErrMalformedPayload)
	require.Zero(t, api.writes)
}

func TestAppendOption_RequiresValue(t *testing.T) {
	api := &fakePropertyAPI{property: &crm.Property{Type: crm.EnumerationType}}
	s := properties.NewSynchronizer(api)

	_, err := s.AppendOption(context.Background(), "events_attended", crm.PropertyOption{Label: "Y"})
	require.ErrorIs(t, err, errors.ErrMalformedPayload)
}

func TestAppendOption_UpstreamFailures(t *testing.T) {
	ctx := context.Background()

	api := &fakePropertyAPI{getErr: &crm.APIError{Method: "GET", Path: "/p", Status: 500}}
	_, err := properties.NewSynchronizer(api).AppendOption(ctx, "events_attended", crm.PropertyOption{Label: "Y", Value: "Y"})
	require.ErrorIs(t, err, errors.ErrUpstreamFetchFailed)
	require.Zero(t, api.writes)

	api = &fakePropertyAPI{
		property:   &crm.Property{Type: crm.EnumerationType},
		replaceErr: &crm.APIError{Method: "PATCH", Path: "/p", Status: 400},
	}
	_, err = properties.NewSynchronizer(api).AppendOption(ctx, "events_attended", crm.PropertyOption{Label: "Y", Value: "Y"})
	require.ErrorIs(t, err, errors.ErrUpstreamWriteFailed)
}
