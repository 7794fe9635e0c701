package validator

import (
	"errors"
	"fmt"

	val "github.com/go-playground/validator/v10"
)

type messageFunc func(field, param string) string

func withParam(format string) messageFunc {
	return func(field, param string) string {
		return fmt.Sprintf(format, field, param)
	}
}

func fieldOnly(format string) messageFunc {
	return func(field, _ string) string {
		return fmt.Sprintf(format, field)
	}
}

var messages = map[string]messageFunc{
	"required":    fieldOnly("%s is required"),
	"notblank":    fieldOnly("%s must not be blank"),
	"email":       fieldOnly("%s must be a valid email address"),
	"uuid":        fieldOnly("%s must be a valid UUID"),
	"required_if": withParam("%s is required when %s"),
	"oneof":       withParam("%s must be one of %s"),
	"datetime":    withParam("%s must match the layout %s"),
	"gte":         withParam("%s must be greater than or equal to %s"),
	"min":         withParam("%s must be greater than or equal to %s"),
	"lte":         withParam("%s must be less than or equal to %s"),
	"max":         withParam("%s must be less than or equal to %s"),
}

// message describes the first failed rule that has a registered message, and
// falls back to the validator's own text.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fieldErr := range fieldErrors {
		if describe, ok := messages[fieldErr.Tag()]; ok {
			return describe(fieldErr.Field(), fieldErr.Param())
		}
	}

	return fieldErrors.Error()
}
