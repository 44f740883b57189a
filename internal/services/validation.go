package services

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/trelloflash/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the struct tags of v and reports the first failure as a
// VALIDATION_ERROR.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return errors.FromValidation(err)
	}
	return nil
}
