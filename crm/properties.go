package crm

import (
	"context"
	"net/http"
	"net/url"
)

func propertyPath(name string) string {
	return "/crm/v3/properties/contacts/" + url.PathEscape(name)
}

// GetProperty reads a contact property definition, options included.
func (c *Client) GetProperty(ctx context.Context, name string) (*Property, error) {
	var property Property
	if err := c.do(ctx, http.MethodGet, propertyPath(name), url.Values{"archived": {"false"}}, nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// ReplacePropertyOptions overwrites the property's whole option list.
func (c *Client) ReplacePropertyOptions(ctx context.Context, name string, options []PropertyOption) (*Property, error) {
	body := struct {
		Options   []PropertyOption `json:"options"`
		FormField bool             `json:"formField"`
	}{Options: options, FormField: true}

	var property Property
	if err := c.do(ctx, http.MethodPatch, propertyPath(name), nil, body, &property); err != nil {
		return nil, err
	}
	return &property, nil
}
