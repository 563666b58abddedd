package models

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	semverPattern  = regexp.MustCompile(`^(\d+\.){0,2}(\d+|\*)$`)
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{10,13}$`)
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Value != "" {
		return fmt.Sprintf("%s: %s (value: %q)", ve.Field, ve.Message, ve.Value)
	}
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ves ValidationErrors) Error() string {
	if len(ves) == 0 {
		return ""
	}
	if len(ves) == 1 {
		return ves[0].Error()
	}

	var messages []string
	for _, ve := range ves {
		messages = append(messages, ve.Error())
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(messages, "; "))
}

// ByField returns the first message per field
func (ves ValidationErrors) ByField() map[string]string {
	out := make(map[string]string, len(ves))
	for _, ve := range ves {
		if _, ok := out[ve.Field]; !ok {
			out[ve.Field] = ve.Message
		}
	}
	return out
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the custom rules registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = NewValidator()
	})
	return validate
}

// NewValidator creates a new validator with custom validation rules.
// Field names in errors are the json names so they line up with payload keys.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("nonblank", validateNonBlank)
	v.RegisterValidation("semver", validateSemver)
	v.RegisterValidation("absurl", validateAbsURL)
	v.RegisterValidation("pincode", validatePincode)
	v.RegisterValidation("phone", validatePhone)

	return v
}

// Validate runs every rule on a model
func Validate(model any) error {
	if err := Validator().Struct(model); err != nil {
		return convertValidatorErrors(err)
	}
	return nil
}

// ValidatePartial runs the rules of the named Go struct fields only
func ValidatePartial(model any, fields ...string) error {
	if err := Validator().StructPartial(model, fields...); err != nil {
		return convertValidatorErrors(err)
	}
	return nil
}

// convertValidatorErrors converts go-playground validator errors to our custom format
func convertValidatorErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var out ValidationErrors

		for _, ve := range validationErrors {
			out = append(out, ValidationError{
				Field:   fieldPath(ve),
				Message: getValidationMessage(ve),
				Value:   fmt.Sprintf("%v", ve.Value()),
			})
		}

		return out
	}

	return err
}

// fieldPath drops the struct name from the namespace: "Plan.features[0].name" -> "features[0].name"
func fieldPath(ve validator.FieldError) string {
	ns := ve.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ve.Field()
}

// getValidationMessage returns a human-readable message for validation errors
func getValidationMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required", "nonblank":
		return "is required"
	case "min":
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", ve.Param())
		}
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", ve.Param())
		}
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be a number greater than or equal to %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(ve.Param(), " ", ", "))
	case "email":
		return "must be a valid email address"
	case "semver":
		return "must be a version like 1.0.0 (up to three numeric groups, last may be *)"
	case "absurl":
		return "must be a valid absolute URL (e.g. https://example.com)"
	case "pincode":
		return "must be a 6 digit pincode"
	case "phone":
		return "must be a 10 to 13 digit phone number"
	default:
		return ve.Error()
	}
}

// Custom validation functions

// validateNonBlank fails when the trimmed value is empty
func validateNonBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateSemver accepts one to three dot-separated digit groups, the last one optionally "*"
func validateSemver(fl validator.FieldLevel) bool {
	return IsVersion(fl.Field().String())
}

// validateAbsURL accepts absolute URLs with a scheme and a host
func validateAbsURL(fl validator.FieldLevel) bool {
	return IsAbsoluteURL(fl.Field().String())
}

func validatePincode(fl validator.FieldLevel) bool {
	return pincodePattern.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// IsVersion reports whether s is an app version such as 1, 1.2, 1.0.0 or 1.0.*
func IsVersion(s string) bool {
	return semverPattern.MatchString(s)
}

// IsAbsoluteURL reports whether s parses as an absolute URL
func IsAbsoluteURL(s string) bool {
	if strings.TrimSpace(s) != s || s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
