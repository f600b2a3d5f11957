package crm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-crm-sync/internal/errors"
)

// FirstContact returns the first contact of the portal with its name properties.
func (c *Client) FirstContact(ctx context.Context) (*Contact, error) {
	var page objectPage
	query := url.Values{
		"limit":      {"1"},
		"properties": {"firstname,lastname"},
		"archived":   {"false"},
	}
	if err := c.do(ctx, http.MethodGet, "/crm/v3/objects/contacts", query, nil, &page); err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "[crm FirstContact] portal has no contacts")
	}
	obj := page.Results[0]
	return &Contact{ID: obj.ID, Properties: obj.Properties}, nil
}

// UpdateContact patches the given contact properties.
func (c *Client) UpdateContact(ctx context.Context, contactID string, properties map[string]string) error {
	body := struct {
		Properties map[string]string `json:"properties"`
	}{Properties: properties}
	return c.do(ctx, http.MethodPatch, "/crm/v3/objects/contacts/"+url.PathEscape(contactID), nil, body, nil)
}
