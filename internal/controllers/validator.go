package controllers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs go-playground/validator into echo.Context.Validate.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds a validator that names fields by their json tag.
func NewRequestValidator() *RequestValidator {
	v := validator.New()
	// report fields by their JSON/form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

// Validate runs the struct's validate tags.
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// validationMessages flattens a validation error into one line per field.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", fe.Field(), map[string]string{"min": "at least", "max": "at most"}[fe.Tag()], fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return msgs
}
