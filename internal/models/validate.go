package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const categoryTag = "tweak_category"

// NewValidator returns a validator that knows the tweak category rule and
// reports fields by their json names. It panics if the rule cannot be
// registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	err := v.RegisterValidation(categoryTag, func(fl validator.FieldLevel) bool {
		return TweakCategory(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", categoryTag, err))
	}
	return v
}

// Validate runs v against s and converts failures into a *ValidationError.
func Validate(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fieldName(fe.Namespace())
		if _, seen := out.Fields[field]; seen {
			continue
		}
		out.Fields[field] = message(fe)
	}
	return out
}

// "ProjectInput.results[0]" -> "results"
func fieldName(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	if i := strings.IndexAny(namespace, ".["); i >= 0 {
		namespace = namespace[:i]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "needs at least " + fe.Param() + " entry"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "tweak_category":
		return "is not a known category"
	default:
		return "is invalid"
	}
}
