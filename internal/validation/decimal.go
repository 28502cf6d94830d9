package validation

import (
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// registerDecimal presents decimal.Decimal to the engine as its exact string
// form and registers the decimal tags that read it back. Converting through
// float64 would lose precision, so the built-in numeric tags (gt, lte...) are
// not meant for decimals.
func registerDecimal(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "decimal_gt0", decimalTag(func(d decimal.Decimal, _ string) bool {
		return d.GreaterThan(decimal.Zero)
	}))
	mustRegister(v, "decimal_scale", decimalTag(func(d decimal.Decimal, param string) bool {
		places, err := strconv.Atoi(param)
		if err != nil {
			return false
		}
		return d.Equal(d.Truncate(int32(places)))
	}))
	mustRegister(v, "decimal_int_digits", decimalTag(func(d decimal.Decimal, param string) bool {
		digits, err := strconv.Atoi(param)
		if err != nil {
			return false
		}
		return d.Abs().LessThan(decimal.New(1, int32(digits)))
	}))
}

func decimalTag(check func(d decimal.Decimal, param string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return check(d, fl.Param())
	}
}
