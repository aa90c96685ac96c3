package services

import (
	"github.com/go-playground/validator/v10"

	"github.com/yigit/courseplanner/internal/pkg/semester"
	"github.com/yigit/courseplanner/internal/pkg/validation"
)

// newValidator returns a validator that also understands the catalog tags
func newValidator(codec semester.Codec) *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("semester_code", func(fl validator.FieldLevel) bool {
		_, err := codec.Decode(int(fl.Field().Int()))
		return err == nil
	})
	_ = validation.Register(v)
	return v
}
