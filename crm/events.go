package crm

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const (
	eventNameProperty = "event_name"
	eventDateProperty = "event_date"
)

func (c *Client) eventsPath() string {
	return "/crm/v3/objects/" + url.PathEscape(c.config.GetEventObjectType())
}

func toEvent(obj object) Event {
	return Event{ID: obj.ID, Name: obj.Properties[eventNameProperty], Date: obj.Properties[eventDateProperty]}
}

// ListEvents returns the first page of events, at most limit records.
func (c *Client) ListEvents(ctx context.Context, limit int) ([]Event, error) {
	var page objectPage
	query := url.Values{
		"limit":                {strconv.Itoa(limit)},
		"properties":           {eventNameProperty + "," + eventDateProperty},
		"paginateAssociations": {"false"},
		"archived":             {"false"},
	}
	if err := c.do(ctx, http.MethodGet, c.eventsPath(), query, nil, &page); err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(page.Results))
	for _, obj := range page.Results {
		events = append(events, toEvent(obj))
	}
	return events, nil
}

// GetEvent fetches one event with its name and date.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	var obj object
	query := url.Values{
		"properties": {eventNameProperty + "," + eventDateProperty},
		"archived":   {"false"},
	}
	if err := c.do(ctx, http.MethodGet, c.eventsPath()+"/"+url.PathEscape(eventID), query, nil, &obj); err != nil {
		return nil, err
	}
	event := toEvent(obj)
	if event.ID == "" {
		event.ID = eventID
	}
	return &event, nil
}

// ContactEventAssociations lists the ids of the events associated with the
// contact. Only the first page is read.
func (c *Client) ContactEventAssociations(ctx context.Context, contactID string) ([]string, error) {
	var page associationPage
	query := url.Values{
		"limit":                {strconv.Itoa(c.config.GetAssociationPageSize())},
		"paginateAssociations": {"false"},
	}
	path := "/crm/v3/objects/contacts/" + url.PathEscape(contactID) + "/associations/" + url.PathEscape(c.config.GetEventObjectType())
	if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(page.Results))
	for _, a := range page.Results {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// AssociateEvent links the contact to the event with the configured association type.
func (c *Client) AssociateEvent(ctx context.Context, contactID, eventID string) error {
	path := "/crm/v3/objects/contacts/" + url.PathEscape(contactID) +
		"/associations/" + url.PathEscape(c.config.GetEventObjectType()) +
		"/" + url.PathEscape(eventID) +
		"/" + url.PathEscape(c.config.GetEventAssociationType())
	return c.do(ctx, http.MethodPut, path, nil, nil, nil)
}
