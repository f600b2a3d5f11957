package crm

import (
	"context"
	"net/http"
)

// CreateEventSchema registers the events custom object: a required, unique
// event_name and a searchable event_date, associated with contacts.
func (c *Client) CreateEventSchema(ctx context.Context) (*ObjectSchema, error) {
	req := schemaRequest{
		Name:                   "my_events",
		Labels:                 schemaLabels{Singular: "Event", Plural: "Events"},
		RequiredProperties:     []string{eventNameProperty},
		SearchableProperties:   []string{eventNameProperty, eventDateProperty},
		PrimaryDisplayProperty: eventNameProperty,
		Properties: []schemaProperty{
			{Name: eventNameProperty, Label: "Name", IsPrimaryDisplayLabel: true, HasUniqueValue: true},
			{Name: eventDateProperty, Label: "Date", IsPrimaryDisplayLabel: true},
		},
		AssociatedObjects: []string{"CONTACT"},
		MetaType:          "PORTAL_SPECIFIC",
	}

	var schema ObjectSchema
	if err := c.do(ctx, http.MethodPost, "/crm-object-schemas/v3/schemas", nil, req, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}
