package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slotwise/shared/failure"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

// registerNotBlank rejects strings made only of whitespace.
func registerNotBlank(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return !field.Field().IsZero()
	}

	return strings.TrimSpace(str) != ""
}

// jsonName reports fields by their JSON name so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	if err := validate.RegisterValidation("notblank", registerNotBlank); err != nil {
		panic(err)
	}
}

// Validate decodes a JSON body from r into data and validates it. Both decode
// and rule failures are bad requests.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// ValidateOptional is Validate for an optional body: an empty body leaves data
// as it is and only the rules are checked.
func ValidateOptional[T any](r io.Reader, data *T) error {
	err := json.NewDecoder(r).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// ValidateStruct checks the validate tags of data, reporting fields by JSON name.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
