package config

type CRMConfig interface {
	GetAPIBaseURL() string
	GetAPIKey() string
	GetEventObjectType() string
	GetEventAssociationType() string
	GetEventsAttendedProperty() string
	GetAssociationPageSize() int
	GetCRMConcurrency() int
}

type CRM struct {
	APIBaseURL string `yaml:"api_base_url" env:"API_BASE_URL" env-default:"https://api.hubapi.com"`
	// Private-app token used for webhook-driven calls, which carry no browser session
	APIKey                 string `yaml:"api_key" env:"CRM_API_KEY"`
	EventObjectType        string `yaml:"event_object_type" env:"EVENT_OBJECT_TYPE" env-default:"events"`
	EventAssociationType   string `yaml:"event_association_type" env:"EVENT_ASSOCIATION_TYPE" env-default:"event_to_contact"`
	EventsAttendedProperty string `yaml:"events_attended_property" env:"EVENTS_ATTENDED_PROPERTY" env-default:"events_attended"`
	AssociationPageSize    int    `yaml:"association_page_size" env:"ASSOCIATION_PAGE_SIZE" env-default:"500"`
	Concurrency            int    `yaml:"concurrency" env:"CRM_CONCURRENCY" env-default:"4"`
}

var _ CRMConfig = CRM{}

func (c CRM) GetAPIBaseURL() string {
	return c.APIBaseURL
}

func (c CRM) GetAPIKey() string {
	return c.APIKey
}

func (c CRM) GetEventObjectType() string {
	return c.EventObjectType
}

func (c CRM) GetEventAssociationType() string {
	return c.EventAssociationType
}

func (c CRM) GetEventsAttendedProperty() string {
	return c.EventsAttendedProperty
}

func (c CRM) GetAssociationPageSize() int {
	if c.AssociationPageSize <= 0 {
		return 500
	}
	return c.AssociationPageSize
}

func (c CRM) GetCRMConcurrency() int {
	if c.Concurrency <= 0 {
		return 1
	}
	return c.Concurrency
}
