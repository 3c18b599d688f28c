package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// ValidationError describes one failed rule on one field. Field names follow
// the json tag so messages line up with the wire payload.
type ValidationError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

func (e ValidationError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s must satisfy %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s must satisfy %s", e.Field, e.Rule)
}

// ValidationErrors collects every failed rule from one struct validation.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return strings.Join(v.Describe(), "; ")
}

// Describe renders one message per failed field, suitable for API error
// details.
func (v ValidationErrors) Describe() []string {
	messages := make([]string, len(v))
	for i, failure := range v {
		messages[i] = failure.String()
	}
	return messages
}

// ValidateStruct runs the registered rules against s. Rule failures come back
// as ValidationErrors; anything else is a programming error in the payload
// type.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	failures := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		failures = append(failures, ValidationError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return failures
}

// RegisterValidation adds a custom rule, such as domain role names.
func RegisterValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if comma := strings.Index(tag, ","); comma != -1 {
		tag = tag[:comma]
	}
	if tag == "" {
		return field.Name
	}
	return tag
}
