package crm

// Event is a record of the events custom object.
type Event struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

type Contact struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// FullName joins the contact's firstname and lastname properties.
func (c Contact) FullName() string {
	first, last := c.Properties["firstname"], c.Properties["lastname"]
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}

type Association struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// PropertyOption is one entry of a picklist property. DisplayOrder and Hidden
// are always sent so rewritten option lists carry explicit values.
type PropertyOption struct {
	Label        string `json:"label"`
	Value        string `json:"value"`
	DisplayOrder int    `json:"displayOrder"`
	Hidden       bool   `json:"hidden"`
}

// EnumerationType is the property type of picklist properties.
const EnumerationType = "enumeration"

type Property struct {
	Name      string           `json:"name"`
	Label     string           `json:"label"`
	Type      string           `json:"type"`
	FieldType string           `json:"fieldType"`
	GroupName string           `json:"groupName,omitempty"`
	Options   []PropertyOption `json:"options"`
}

// ObjectSchema is the CRM's answer to a custom object schema creation.
type ObjectSchema struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ObjectTypeID       string `json:"objectTypeId"`
	FullyQualifiedName string `json:"fullyQualifiedName"`
}

// object is the generic CRM v3 object representation.
type object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type objectPage struct {
	Results []object `json:"results"`
}

type associationPage struct {
	Results []Association `json:"results"`
}

type schemaLabels struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

type schemaProperty struct {
	Name                  string `json:"name"`
	Label                 string `json:"label"`
	IsPrimaryDisplayLabel bool   `json:"isPrimaryDisplayLabel"`
	HasUniqueValue        bool   `json:"hasUniqueValue"`
}

type schemaRequest struct {
	Name                   string           `json:"name"`
	Labels                 schemaLabels     `json:"labels"`
	RequiredProperties     []string         `json:"requiredProperties"`
	SearchableProperties   []string         `json:"searchableProperties"`
	PrimaryDisplayProperty string           `json:"primaryDisplayProperty"`
	Properties             []schemaProperty `json:"properties"`
	AssociatedObjects      []string         `json:"associatedObjects"`
	MetaType               string           `json:"metaType"`
}
