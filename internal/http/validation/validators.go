// Package validation wraps go-playground/validator with the form rules the
// UI needs and maps failures to per-field messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// looseEmail is a shape check only: something@something.something.
var looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

// Messages maps "field.tag" (field by its form tag) to the message shown.
type Messages map[string]string

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use
var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator with custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
			return looseEmail.MatchString(fl.Field().String())
		}); err != nil {
			panic("validation: register looseemail: " + err.Error())
		}
		validate = v
	})
	return validate
}

// Struct validates v and returns the first failure per field, keyed by form
// name. Failures without a configured message fall back to "<field> is invalid".
// A nil map means v is valid.
func Struct(v any, msgs Messages) map[string]string {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := msgs[field+"."+fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		out[field] = field + " is invalid"
	}
	return out
}
