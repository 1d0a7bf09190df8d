// Package form describes data-entry forms as plain descriptors and enforces
// required fields before a submission reaches its handler.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/onestopshop/storefront/internal/core/domain"
)

type Kind string

const (
	KindText     Kind = "text"
	KindEmail    Kind = "email"
	KindPassword Kind = "password"
	KindNumber   Kind = "number"
	KindSelect   Kind = "select"
	KindURL      Kind = "url"
	KindTextarea Kind = "textarea"
)

const defaultSubmitText = "Guardar"

var ErrInvalidField = errors.New("invalid form field")

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Kind        Kind     `json:"type"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []Option `json:"options,omitempty"`
	Required    bool     `json:"required"`
	Default     string   `json:"defaultValue,omitempty"`
}

type Form struct {
	Name       string  `json:"name"`
	Title      string  `json:"title,omitempty"`
	SubmitText string  `json:"submitText"`
	Fields     []Field `json:"fields"`
}

// New validates the field descriptors. Fields without a kind are text fields.
func New(name, title string, fields ...Field) (*Form, error) {
	fields = append([]Field(nil), fields...)
	seen := make(map[string]struct{}, len(fields))
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field %d has no name", ErrInvalidField, i)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidField, f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.Kind == "" {
			f.Kind = KindText
		}
		switch f.Kind {
		case KindText, KindEmail, KindPassword, KindNumber, KindURL, KindTextarea:
		case KindSelect:
			if len(f.Options) == 0 {
				return nil, fmt.Errorf("%w: select %q has no options", ErrInvalidField, f.Name)
			}
		default:
			return nil, fmt.Errorf("%w: field %q has unknown type %q", ErrInvalidField, f.Name, f.Kind)
		}
	}
	return &Form{Name: name, Title: title, SubmitText: defaultSubmitText, Fields: fields}, nil
}

func MustNew(name, title string, fields ...Field) *Form {
	f, err := New(name, title, fields...)
	if err != nil {
		panic(err)
	}
	return f
}

// Values starts from every field's default and overlays the input for known
// field names. Unknown input keys are dropped.
func (f *Form) Values(input map[string]string) map[string]string {
	out := make(map[string]string, len(f.Fields))
	for _, fd := range f.Fields {
		out[fd.Name] = fd.Default
		if v, ok := input[fd.Name]; ok {
			out[fd.Name] = v
		}
	}
	return out
}

// Missing lists required fields whose value is blank, in field order.
func (f *Form) Missing(values map[string]string) []string {
	var missing []string
	for _, fd := range f.Fields {
		if fd.Required && strings.TrimSpace(values[fd.Name]) == "" {
			missing = append(missing, fd.Name)
		}
	}
	return missing
}

// Submit merges input with defaults and calls handler only when every
// required field is filled in.
func (f *Form) Submit(input map[string]string, handler func(values map[string]string) error) error {
	values := f.Values(input)
	if missing := f.Missing(values); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return handler(values)
}

// MissingFieldsError reports every blank required field of one submission.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "please complete the required fields"
}

func (e *MissingFieldsError) Unwrap() error { return domain.ErrValidation }

// MissingFields returns the names of the blank required fields.
func (e *MissingFieldsError) MissingFields() []string { return e.Fields }
