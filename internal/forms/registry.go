package forms

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownForm   = errors.New("forms.unknown_form")
	ErrInvalidConfig = errors.New("forms.invalid_config")
)

// Config carries deployment-specific overrides for the compiled-in forms.
type Config struct {
	ContactRecipient   string `env:"FORMS_CONTACT_RECIPIENT"`
	VolunteerRecipient string `env:"FORMS_VOLUNTEER_RECIPIENT"`
	// File points to an optional YAML file with per-form overrides.
	File string `env:"FORMS_FILE"`
}

// fileOverrides is the YAML shape of the overrides file:
//
//	forms:
//	  contact_form:
//	    recipient: someone@example.org
//	    subject: Custom subject
type fileOverrides struct {
	Forms map[ID]struct {
		Recipient string `yaml:"recipient"`
		Subject   string `yaml:"subject"`
		Title     string `yaml:"title"`
		Anchor    string `yaml:"anchor"`
	} `yaml:"forms"`
}

// Registry holds the resolved form definitions. It is immutable after
// construction and safe for concurrent use.
type Registry struct {
	defs map[ID]Definition
}

// NewRegistry builds the registry from compiled-in defaults plus the
// overrides in cfg. Env recipients apply first, the YAML file last.
func NewRegistry(cfg Config) (*Registry, error) {
	defs := map[ID]Definition{
		Contact:   contactDefinition(),
		Volunteer: volunteerDefinition(),
	}

	if cfg.ContactRecipient != "" {
		d := defs[Contact]
		d.Recipient = cfg.ContactRecipient
		defs[Contact] = d
	}
	if cfg.VolunteerRecipient != "" {
		d := defs[Volunteer]
		d.Recipient = cfg.VolunteerRecipient
		defs[Volunteer] = d
	}

	if cfg.File != "" {
		if err := applyFile(defs, cfg.File); err != nil {
			return nil, err
		}
	}

	return &Registry{defs: defs}, nil
}

func applyFile(defs map[ID]Definition, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	for id, o := range overrides.Forms {
		d, ok := defs[id]
		if !ok {
			return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown form %q in %s", id, path))
		}
		if o.Recipient != "" {
			d.Recipient = o.Recipient
		}
		if o.Subject != "" {
			d.Subject = o.Subject
		}
		if o.Title != "" {
			d.Title = o.Title
		}
		if o.Anchor != "" {
			d.Anchor = o.Anchor
		}
		defs[id] = d
	}
	return nil
}

// Get returns the definition for id.
func (r *Registry) Get(id ID) (Definition, error) {
	d, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownForm, id)
	}
	return d, nil
}

// All returns every definition ordered by ID, for page rendering.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
