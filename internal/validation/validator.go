package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

var insuredIDPattern = regexp.MustCompile(`^\d{5}$`)

// FieldError describes a single offending field of an invalid request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the tagged failure result of schema validation. It implements
// error so the workflow can return it through a normal error path while
// boundaries pick it apart with errors.As.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// New returns a configured validator with the insuredid rule registered and
// JSON tag names reported in field errors.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("insuredid", func(fl validatorv10.FieldLevel) bool {
		return insuredIDPattern.MatchString(fl.Field().String())
	})

	return v
}

// Check runs struct validation and converts the result into Errors.
// Returns nil when the value is valid.
func Check(v *validatorv10.Validate, value interface{}) Errors {
	err := v.Struct(value)
	if err == nil {
		return nil
	}

	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return Errors{{Field: "request", Message: err.Error()}}
	}

	out := make(Errors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

// InsuredID validates a bare insured id, used by the query path where the
// id arrives as a path parameter rather than a request body.
func InsuredID(id string) Errors {
	if !insuredIDPattern.MatchString(id) {
		return Errors{{Field: "insuredId", Message: "must be exactly 5 digits"}}
	}
	return nil
}

func messageFor(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "insuredid":
		return "must be exactly 5 digits"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
