package pusula

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// validatorInstance returns the shared validator. Field errors are named
// after the JSON keys the backend sees.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Unset numbers read as nil so omitempty skips them.
		validate.RegisterCustomTypeFunc(func(v reflect.Value) any {
			n, ok := v.Interface().(Number)
			if !ok || !n.Valid {
				return nil
			}
			return n.Value
		}, Number{})
	})
	return validate
}

// Validate checks field ranges and enumerations on Request. Every field
// is optional; only present values are checked.
func (r Request) Validate() error {
	if err := validatorInstance().Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return fmt.Errorf("%v: %w", err, ErrValidation)
	}
	if r.Month.Valid && r.Month.Value != math.Trunc(r.Month.Value) {
		return fmt.Errorf("month must be a whole number, got %v: %w", r.Month, ErrValidation)
	}
	if r.MinTempC.Valid && r.MaxTempC.Valid && r.MinTempC.Value > r.MaxTempC.Value {
		return fmt.Errorf("min_temp_c must not exceed max_temp_c, got %g > %g: %w", r.MinTempC.Value, r.MaxTempC.Value, ErrValidation)
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Errorf("%s must be at most %s characters: %w", fe.Field(), fe.Param(), ErrValidation)
		}
		return fmt.Errorf("%s must be at most %s, got %v: %w", fe.Field(), fe.Param(), deref(fe.Value()), ErrValidation)
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s, got %v: %w", fe.Field(), fe.Param(), deref(fe.Value()), ErrValidation)
	case "lte":
		return fmt.Errorf("%s must be at most %s, got %v: %w", fe.Field(), fe.Param(), deref(fe.Value()), ErrValidation)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q: %w", fe.Field(), fe.Param(), fmt.Sprint(fe.Value()), ErrValidation)
	default:
		return fmt.Errorf("%s failed %q check: %w", fe.Field(), fe.Tag(), ErrValidation)
	}
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}
