package webhook

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/jrsteele09/go-crm-sync/internal/utils"
)

// AssociationRequest asks for a contact to be associated with events.
type AssociationRequest struct {
	ContactID string
	// Property is the contact property that changed, when the delivery names it
	Property  string
	EventIDs  []string
}

// NewEvent announces a freshly created event record.
type NewEvent struct {
	ID   string
	Name string
}

// ObjectID accepts the CRM's object ids sent either as JSON numbers or strings.
type ObjectID string

func (id *ObjectID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ObjectID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return errors.Wrapf(errors.ErrMalformedPayload, "objectId %s is not an integer", n)
	}
	*id = ObjectID(n.String())
	return nil
}

// subscription is one element of a property-change webhook delivery.
type subscription struct {
	ObjectID      ObjectID `json:"objectId"`
	PropertyName  *string  `json:"propertyName"`
	PropertyValue *string  `json:"propertyValue"`
}

type eventProperty struct {
	Value *string `json:"value"`
}

type newEventPayload struct {
	ObjectID   ObjectID                 `json:"objectId"`
	Properties map[string]eventProperty `json:"properties"`
}

// ParseAssociation reads a property-change delivery. Only the first
// subscription is used: its objectId is the contact and its propertyValue a
// semicolon separated list of event ids. Blank ids are dropped.
func ParseAssociation(body []byte) (*AssociationRequest, error) {
	var subs []subscription
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[webhook ParseAssociation] %v", err)
	}
	if len(subs) == 0 {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[webhook ParseAssociation] empty delivery")
	}

	sub := subs[0]
	if sub.ObjectID == "" {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[webhook ParseAssociation] missing objectId")
	}
	if sub.PropertyValue == nil {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[webhook ParseAssociation] missing propertyValue")
	}

	return &AssociationRequest{
		ContactID: string(sub.ObjectID),
		Property:  utils.Value(sub.PropertyName),
		EventIDs:  SplitEventIDs(utils.Value(sub.PropertyValue)),
	}, nil
}

// ParseNewEvent reads a new-event workflow delivery.
func ParseNewEvent(body []byte) (*NewEvent, error) {
	var payload newEventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[webhook ParseNewEvent] %v", err)
	}
	if payload.ObjectID == "" {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[webhook ParseNewEvent] missing objectId")
	}

	name := strings.TrimSpace(utils.Value(payload.Properties["event_name"].Value))
	if name == "" {
		return nil, errors.Wrapf(errors.ErrMalformedPayload, "[webhook ParseNewEvent] missing properties.event_name.value")
	}
	return &NewEvent{ID: string(payload.ObjectID), Name: name}, nil
}

// SplitEventIDs splits a multi-checkbox property value on semicolons.
func SplitEventIDs(value string) []string {
	ids := make([]string, 0)
	for _, id := range strings.Split(value, ";") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
