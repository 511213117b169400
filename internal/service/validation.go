package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"usermgmt/internal/models"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the form field names the views use
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// validateStruct runs every rule on s and returns one violation per invalid
// field, in struct field order. A nil result means s is valid.
func validateStruct(v *validator.Validate, s interface{}) ([]models.Violation, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	violations := make([]models.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, models.Violation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return violations, nil
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters long"
	default:
		return fe.Field() + " is invalid"
	}
}
