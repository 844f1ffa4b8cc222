package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/TheJazzDev/orits-fashion/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

	v = newValidator()
)

const (
	MinPassword = 8
	MaxPassword = 72 // bcrypt ignores anything past 72 bytes
)

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// Struct runs the `validate` tags on an input payload and converts the first
// failure into a *domain.ValidationError.
func Struct(in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Invalid("", "invalid input")
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.Invalid(field, field+" is required")
	case "email":
		return domain.Invalid(field, "enter a valid email address")
	case "url":
		return domain.Invalid(field, field+" must be a valid URL")
	case "min", "max":
		return domain.Invalid(field, fmt.Sprintf("%s is out of range (%s %s)", field, fe.Tag(), fe.Param()))
	default:
		return domain.Invalid(field, field+" is invalid")
	}
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates a route identifier: a uuid or a slug.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Password enforces the admin password length window.
func Password(s string) bool {
	return len(s) >= MinPassword && len(s) <= MaxPassword
}

// Rating reports whether r is a valid star rating.
func Rating(r int) bool { return r >= 1 && r <= 5 }

// Optional trims s and maps blank to nil so empty form fields are stored as NULL.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
