package domain

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		validatorInst.RegisterTagNameFunc(jsonFieldName)
		// Allow "Present" end dates while still validating real dates.
		_ = validatorInst.RegisterValidation("date_or_present", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" || value == "Present" {
				return true
			}
			_, err := time.Parse("2006-01-02", value)
			return err == nil
		})
	})
	return validatorInst
}

// jsonFieldName reports errors under the json key the client actually sent.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// ValidateStruct runs go-playground/validator over model and maps failures
// into the package's ValidationErrors so handlers can surface per-field
// detail consistently.
func ValidateStruct(model interface{}) error {
	err := getValidator().Struct(model)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	mapped := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		mapped = append(mapped, ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
			Type:    validationType(fe.Tag()),
		})
	}
	return mapped
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "date_or_present":
		return `must be a date in YYYY-MM-DD form or "Present"`
	default:
		return fe.Error()
	}
}

func validationType(tag string) string {
	switch tag {
	case "required":
		return ErrRequired
	case "max":
		return ErrMaxLength
	case "min":
		return ErrMinLength
	case "date_or_present":
		return ErrInvalidField
	default:
		return ErrInvalidField
	}
}

// Sanitizer strips markup from user-supplied free text before it reaches
// storage or the archive network.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

func (s *Sanitizer) Clean(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}

// CleanSlice sanitizes each element and drops entries that end up empty.
// The result is never nil.
func (s *Sanitizer) CleanSlice(inputs []string) []string {
	out := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if cleaned := s.Clean(in); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
