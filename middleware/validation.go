package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so clients can map errors onto form inputs.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(field.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// ValidateStruct runs the validate tags of s and returns one message per
// failing field, keyed by the field's JSON name. A nil map means s is valid.
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

// IsUUID reports whether id is a canonical UUID string.
func IsUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required!", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long!", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s!", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s!", label, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid ID!", label)
	default:
		return fmt.Sprintf("%s is invalid!", label)
	}
}

// fieldLabel turns "file_key" into "File key".
func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return "Field"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
