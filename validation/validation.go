// Package validation collects field-level violations as message codes that the
// HTTP layer translates with i18n.
package validation

import (
	"errors"
	"strings"

	"github.com/diewo77/salescrm/i18n"
	"github.com/go-playground/validator/v10"
)

// Violations maps a field key to a message code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Merge copies other into v, keeping existing entries.
func (v Violations) Merge(other Violations) {
	for f, c := range other {
		v.Add(f, c)
	}
}

// Translate returns the violations as human messages in lang.
func (v Violations) Translate(lang string) map[string]string {
	out := make(map[string]string, len(v))
	for f, c := range v {
		out[f] = i18n.T(lang, c)
	}
	return out
}

// Error makes Violations usable as an error value.
func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for f, c := range v {
		parts = append(parts, f+": "+c)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// tagCodes maps validator tags to message codes.
var tagCodes = map[string]string{
	"required": "required",
	"email":    "invalid_email",
	"datetime": "invalid_date",
	"gte":      "must_be_positive",
	"min":      "must_be_positive",
	"oneof":    "invalid_option",
}

// FromValidator converts validator.ValidationErrors into Violations keyed by
// the validator's reported field name. Other errors yield nil.
func FromValidator(err error) Violations {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	v := Violations{}
	for _, fe := range ves {
		code, ok := tagCodes[fe.Tag()]
		if !ok {
			code = "invalid"
		}
		v.Add(fe.Field(), code)
	}
	return v
}

// Required flags a blank string.
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}
