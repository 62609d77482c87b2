package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Field is a searchable column of the pharmacies table.
type Field string

const (
	FieldPinCode  Field = "Pin Code"
	FieldDistrict Field = "District Name"
	FieldState    Field = "State Name"
	FieldAddress  Field = "Address"
)

// Column returns the quoted column identifier.
func (f Field) Column() string {
	return `"` + string(f) + `"`
}

// PharmacyColumns is the column list every pharmacy query selects.
var PharmacyColumns = []string{
	`"Kendra Code"`, `"Name"`, `"Contact"`, `"State Name"`, `"District Name"`,
	`"Pin Code"`, `"Address"`, `"Latitude"`, `"Longitude"`,
}

// suggestFields maps the public field names of the generic suggestion endpoint.
var suggestFields = map[string]Field{
	"state":    FieldState,
	"district": FieldDistrict,
	"area":     FieldAddress,
}

// InvalidFieldError reports a suggestion field name outside suggestFields.
type InvalidFieldError struct {
	Name string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("Invalid field. Must be one of: %s", strings.Join(SuggestFieldNames(), ", "))
}

// ParseSuggestField resolves a public field name to its column.
func ParseSuggestField(name string) (Field, error) {
	field, ok := suggestFields[name]
	if !ok {
		return "", &InvalidFieldError{Name: name}
	}
	return field, nil
}

// SuggestFieldNames lists the accepted names in a stable order.
func SuggestFieldNames() []string {
	names := make([]string, 0, len(suggestFields))
	for name := range suggestFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
