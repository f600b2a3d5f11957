package properties

import (
	"context"

	"github.com/jrsteele09/go-crm-sync/crm"
	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/rs/zerolog"
)

type API interface {
	GetProperty(ctx context.Context, name string) (*crm.Property, error)
	ReplacePropertyOptions(ctx context.Context, name string, options []crm.PropertyOption) (*crm.Property, error)
}

// Synchronizer maintains the option list of picklist contact properties.
type Synchronizer struct {
	api API
}

func NewSynchronizer(api API) *Synchronizer {
	return &Synchronizer{api: api}
}

// AppendOption adds one option to an enumeration property and returns the
// option list that was written.
//
// The CRM only supports replacing the whole list, so two concurrent calls for
// the same property race: the last writer wins and the other option is lost.
func (s *Synchronizer) AppendOption(ctx context.Context, propertyName string, option crm.PropertyOption) ([]crm.PropertyOption, error) {
	if propertyName == "" || option.Value == "" {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[Synchronizer AppendOption] property %q option value %q", propertyName, option.Value)
	}

	property, err := s.api.GetProperty(ctx, propertyName)
	if err != nil {
		return nil, errors.Wrapf(err, "[Synchronizer AppendOption] reading property %s", propertyName)
	}
	if property.Type != crm.EnumerationType {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[Synchronizer AppendOption] property %s has type %q", propertyName, property.Type)
	}

	options := make([]crm.PropertyOption, 0, len(property.Options)+1)
	for _, o := range property.Options {
		options = append(options, normalize(o.Label, o.Value))
	}
	options = append(options, normalize(option.Label, option.Value))

	if _, err := s.api.ReplacePropertyOptions(ctx, propertyName, options); err != nil {
		return nil, errors.Wrapf(err, "[Synchronizer AppendOption] writing property %s", propertyName)
	}

	zerolog.Ctx(ctx).Info().Str("property", propertyName).Str("value", option.Value).
		Int("options", len(options)).Msg("Appended property option")
	return options, nil
}

func normalize(label, value string) crm.PropertyOption {
	return crm.PropertyOption{Label: label, Value: value, DisplayOrder: -1, Hidden: false}
}
