package httpserver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/marketplace/internal/service"
)

// RequestValidator is the echo.Validator for request bodies. Failures come
// back as *service.ValidationError keyed by the json field name.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// decimals are compared as numbers by gte/lte.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		fl, _ := d.Float64()
		return fl
	}, decimal.Decimal{})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name, _, _ := strings.Cut(fe.Field(), "[")
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = fieldMessage(name, fe)
	}
	return &service.ValidationError{Fields: fields}
}

func fieldMessage(name string, fe validator.FieldError) string {
	item := strings.Contains(fe.Field(), "[")
	switch fe.Tag() {
	case "required", "notblank":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "oneof":
		return name + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("%s must contain at least %s item(s)", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s may not be greater than %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s may not be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "gt":
		if item {
			return fmt.Sprintf("%s items must be greater than %s", name, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	default:
		return name + " is invalid"
	}
}
