package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRules(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		value string
		want  bool
	}{
		{"subject", IsSubject, "CMPT", true},
		{"lower subject", IsSubject, "cmpt", true},
		{"subject with digits", IsSubject, "CMPT1", false},
		{"long subject", IsSubject, "ABCDEFGHI", false},
		{"empty subject", IsSubject, "", false},
		{"number", IsCatalogNumber, "276", true},
		{"number with suffix", IsCatalogNumber, "105W", true},
		{"number with space", IsCatalogNumber, "27 6", false},
		{"component", IsComponent, "LEC", true},
		{"component too long", IsComponent, "LECTUREHALL", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.value))
		})
	}
}

func TestStringValidationOptional(t *testing.T) {
	assert.True(t, NewStringValidation("").WithRequired(false).Validate())
	assert.False(t, NewStringValidation("a").WithMinLength(2).Validate())
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type req struct {
		Subject   string `validate:"required,subject"`
		Number    string `validate:"required,catalog_number"`
		Component string `validate:"required,component"`
	}
	assert.NoError(t, v.Struct(req{"CMPT", "276", "LEC"}))
	assert.Error(t, v.Struct(req{"CMPT 1", "276", "LEC"}))
	assert.Error(t, v.Struct(req{"CMPT", "two", "LEC"}))
}
