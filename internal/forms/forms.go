// Package forms declares the public-facing forms the site accepts: their
// fields, cleaning kinds, validation rules and delivery targets. The
// definitions are compiled in; recipients and subjects can be overridden
// through the environment or an optional YAML file.
package forms

import (
	"sort"

	"github.com/jeevandaan/website/pkg/sanitizer"
	"github.com/jeevandaan/website/pkg/validator"
)

// ID identifies a form across submissions, logs and page anchors.
type ID string

const (
	// Contact is the general enquiry form.
	Contact ID = "contact_form"
	// Volunteer is the volunteer sign-up form.
	Volunteer ID = "volunteer_form"
)

// HoneypotField is a hidden input legitimate browsers leave empty.
// Anything submitted in it marks the request as automated.
const HoneypotField = "website"

// FormField is the input carrying the form ID on the combined page.
const FormField = "form_id"

// Definition describes one form end to end: which fields it carries, how
// each is cleaned and validated, and where accepted submissions go.
type Definition struct {
	ID         ID
	Title      string
	Recipient  string
	Subject    string
	Anchor     string // fragment the post-submit redirect scrolls to
	EmailField string // field whose value becomes the reply-to address
	NameField  string
	Order      []string // display order for pages and email bodies
	Kinds      map[string]sanitizer.Kind
	Rules      validator.RuleSet
	// Choices lists the allowed values for fields rendered as selects.
	Choices map[string][]string
}

// FieldNames returns the declared field names in display order, falling
// back to alphabetical when no order is declared.
func (d Definition) FieldNames() []string {
	if len(d.Order) > 0 {
		return d.Order
	}
	names := make([]string, 0, len(d.Kinds))
	for name := range d.Kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Volunteer form choice lists. The page renders these as select options and
// the validator rejects anything outside them.
var (
	InterestChoices     = []string{"education", "health", "environment", "events", "fundraising"}
	AvailabilityChoices = []string{"weekdays", "weekends", "flexible"}
)

func contactDefinition() Definition {
	return Definition{
		ID:         Contact,
		Title:      "Contact Us",
		Recipient:  "contact@jeevandaan.org",
		Subject:    "Website contact enquiry",
		Anchor:     "contact",
		EmailField: "email",
		NameField:  "name",
		Order:      []string{"name", "email", "message"},
		Kinds: map[string]sanitizer.Kind{
			"name":    sanitizer.KindLine,
			"email":   sanitizer.KindEmail,
			"message": sanitizer.KindText,
		},
		Rules: validator.RuleSet{
			"name": {
				validator.Required(),
				validator.AlphaSpace(),
				validator.MinLen(2),
				validator.MaxLen(100),
			},
			"email": {
				validator.Required(),
				validator.Email(),
				validator.MaxLen(255),
			},
			"message": {
				validator.Required(),
				validator.MinLen(10),
				validator.MaxLen(5000),
			},
		},
	}
}

func volunteerDefinition() Definition {
	return Definition{
		ID:         Volunteer,
		Title:      "Volunteer With Us",
		Recipient:  "volunteers@jeevandaan.org",
		Subject:    "New volunteer sign-up",
		Anchor:     "volunteer",
		EmailField: "email",
		NameField:  "name",
		Order:      []string{"name", "email", "phone", "interest", "availability", "message"},
		Kinds: map[string]sanitizer.Kind{
			"name":         sanitizer.KindLine,
			"email":        sanitizer.KindEmail,
			"phone":        sanitizer.KindPhone,
			"interest":     sanitizer.KindLine,
			"availability": sanitizer.KindLine,
			"message":      sanitizer.KindText,
		},
		Rules: validator.RuleSet{
			"name": {
				validator.Required(),
				validator.AlphaSpace(),
				validator.MinLen(2),
				validator.MaxLen(100),
			},
			"email": {
				validator.Required(),
				validator.Email(),
				validator.MaxLen(255),
			},
			"phone": {
				validator.Required(),
				validator.Phone(),
			},
			"interest": {
				validator.Required(),
				validator.OneOf(InterestChoices...),
			},
			"availability": {
				validator.Required(),
				validator.OneOf(AvailabilityChoices...),
			},
			"message": {
				validator.MaxLen(5000),
			},
		},
		Choices: map[string][]string{
			"interest":     InterestChoices,
			"availability": AvailabilityChoices,
		},
	}
}
