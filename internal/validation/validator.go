package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"croplife/internal/model"
)

// Validator wraps validator for Echo and translates failures into
// field-keyed messages.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator with the domain rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Tag.Get("form")
		}
		return name
	})
	if err := v.RegisterValidation("category", validCategory); err != nil {
		panic(fmt.Sprintf("register category validation: %v", err))
	}
	return &Validator{validator: v}
}

func validCategory(fl validator.FieldLevel) bool {
	return model.IsValidCategory(fl.Field().String())
}

// Validate implements echo.Validator interface.
func (cv *Validator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// FieldErrors converts a validation failure into messages keyed by field
// name. The second result is false when err is not a validation failure.
func FieldErrors(err error) (map[string][]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], message(fe))
	}
	return out, true
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "url":
		return "Must be a valid image URL"
	case "category":
		return "Category must be one of: " + strings.Join(model.Categories, ", ")
	default:
		return label + " is invalid"
	}
}

// humanize turns a json field name such as "newUsername" into "New username".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
