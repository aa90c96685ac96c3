package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Department subject, e.g. CMPT
	SubjectPattern = `^[A-Za-z]{2,8}$`

	// Catalog number, e.g. 276 or 105W
	CatalogNumberPattern = `^[0-9]{1,4}[A-Za-z]{0,2}$`

	// Section component, e.g. LEC, TUT, LAB
	ComponentPattern = `^[A-Za-z]{2,8}$`

	SubjectMaxLength       = 8
	CatalogNumberMaxLength = 6
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Subject       *regexp.Regexp
	CatalogNumber *regexp.Regexp
	Component     *regexp.Regexp
}{
	Subject:       regexp.MustCompile(SubjectPattern),
	CatalogNumber: regexp.MustCompile(CatalogNumberPattern),
	Component:     regexp.MustCompile(ComponentPattern),
}

// String validation
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// IsSubject reports whether s looks like a department subject
func IsSubject(s string) bool {
	return NewStringValidation(s).
		WithMaxLength(SubjectMaxLength).
		WithPattern(CompiledPatterns.Subject).
		Validate()
}

// IsCatalogNumber reports whether s looks like a catalog number
func IsCatalogNumber(s string) bool {
	return NewStringValidation(s).
		WithMaxLength(CatalogNumberMaxLength).
		WithPattern(CompiledPatterns.CatalogNumber).
		Validate()
}

// IsComponent reports whether s looks like a section component code
func IsComponent(s string) bool {
	return NewStringValidation(s).WithPattern(CompiledPatterns.Component).Validate()
}

// Register adds the subject, catalog_number and component tags to v
func Register(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"subject":        IsSubject,
		"catalog_number": IsCatalogNumber,
		"component":      IsComponent,
	}
	for tag, fn := range rules {
		fn := fn
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}); err != nil {
			return err
		}
	}
	return nil
}
