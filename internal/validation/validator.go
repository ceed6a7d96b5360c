// Package validation wraps a shared go-playground/validator instance with the
// custom tags used by request payloads:
//
//	pastdate        YYYY-MM-DD, not in the future
//	lang2           two lowercase letters (ISO 639-1 style)
//	personname      letters and spaces only
//	strongpassword  8+ chars with upper, lower, digit and one of @$!%*?&
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	langPattern = regexp.MustCompile(`^[a-z]{2}$`)
	namePattern = regexp.MustCompile(`^[A-Za-z ]+$`)
)

const passwordSpecials = "@$!%*?&"

// now is replaced in tests.
var now = time.Now

// FieldError is a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error collects every failed rule of one payload.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// IsValidationError reports whether err carries field-level validation failures.
func IsValidationError(err error) bool {
	var target *Error
	return errors.As(err, &target)
}

// Get returns the singleton validator.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		mustRegister("pastdate", pastDate)
		mustRegister("lang2", func(fl validator.FieldLevel) bool {
			return langPattern.MatchString(fl.Field().String())
		})
		mustRegister("personname", func(fl validator.FieldLevel) bool {
			return namePattern.MatchString(fl.Field().String())
		})
		mustRegister("strongpassword", func(fl validator.FieldLevel) bool {
			return StrongPassword(fl.Field().String())
		})
	})
	return validate
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

func pastDate(fl validator.FieldLevel) bool {
	d, err := time.Parse("2006-01-02", fl.Field().String())
	if err != nil {
		return false
	}
	return !d.After(now())
}

// StrongPassword applies the account password policy.
func StrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}

// Struct validates s and returns *Error on failure.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &Error{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: translate(fe)}
	}
	return out
}

var messages = map[string]string{
	"required":       "%s is required",
	"email":          "%s must be a valid email address",
	"http_url":       "%s must be an http(s) URL",
	"pastdate":       "%s must be a YYYY-MM-DD date that is not in the future",
	"lang2":          "%s must be a two-letter lowercase language code",
	"personname":     "%s may only contain letters and spaces",
	"strongpassword": "%s must be at least 8 characters with upper, lower, digit and one of %s",
}

// messageArgs supplies extra arguments for messages that quote a fixed value.
var messageArgs = map[string]string{
	"strongpassword": passwordSpecials,
}

var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Tag()]; ok {
		if arg, ok := messageArgs[fe.Tag()]; ok {
			return fmt.Sprintf(tmpl, fe.Field(), arg)
		}
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	switch fe.Tag() {
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
