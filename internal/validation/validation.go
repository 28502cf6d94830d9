// Package validation runs field-level rules against commands before their
// handlers execute.
//
// Every registered validator runs on every call and every rule of a validator
// runs regardless of earlier failures; failures are unioned per field. When
// anything fails the handler is never called and a domain validation error
// carrying the full field map is returned instead.
package validation

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// Failures maps a field name to the messages reported for it
type Failures map[string][]string

// Add records message under field
func (f Failures) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Merge unions other into f
func (f Failures) Merge(other Failures) {
	for field, messages := range other {
		f[field] = append(f[field], messages...)
	}
}

// Validator checks a command without side effects
type Validator[C any] interface {
	Validate(cmd C) Failures
}

// ValidatorFunc adapts a plain function to Validator
type ValidatorFunc[C any] func(cmd C) Failures

// Validate calls f
func (f ValidatorFunc[C]) Validate(cmd C) Failures {
	return f(cmd)
}

// Handler is a single use case entry point
type Handler[C, R any] func(ctx context.Context, cmd C) (R, error)

// WithValidation guards next with validators
func WithValidation[C, R any](next Handler[C, R], validators ...Validator[C]) Handler[C, R] {
	return func(ctx context.Context, cmd C) (R, error) {
		if err := Run(cmd, validators...); err != nil {
			var zero R
			return zero, err
		}
		return next(ctx, cmd)
	}
}

// Run executes every validator and returns a *domain.Error of kind
// KindValidation when at least one rule failed.
func Run[C any](cmd C, validators ...Validator[C]) error {
	failures := Failures{}
	for _, v := range validators {
		failures.Merge(v.Validate(cmd))
	}
	if len(failures) == 0 {
		return nil
	}
	return domain.NewValidationError(failures)
}

// New returns a validator engine with the shared custom tags registered:
//
//	notblank          string has at least one non-space character
//	product_type      integer is a defined domain.ProductType
//	product_category  integer is a defined domain.ProductCategory
//	decimal_gt0            decimal is strictly positive
//	decimal_scale=N        decimal has at most N fractional digits
//	decimal_int_digits=N   decimal has at most N integer digits
func New() *validator.Validate {
	v := validator.New()
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "product_type", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseProductType(int(fl.Field().Int()))
		return err == nil
	})
	mustRegister(v, "product_category", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseProductCategory(int(fl.Field().Int()))
		return err == nil
	})
	registerDecimal(v)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}
