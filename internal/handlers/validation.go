package handlers

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	registerValidatorsOnce sync.Once
	registerValidatorsErr  error
)

// decimalValidations maps binding tags to their decimal checks.
var decimalValidations = map[string]validator.Func{
	"decimal_gte0": decimalGTE0,
	"decimal_gt0":  decimalGT0,
}

// RegisterValidators teaches gin's validator about decimal amounts. It is
// safe to call more than once.
func RegisterValidators() error {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerValidatorsErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		registerValidatorsErr = registerDecimalValidations(v, decimalValidations)
	})
	return registerValidatorsErr
}

func registerDecimalValidations(v *validator.Validate, validations map[string]validator.Func) error {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validation: %w", tag, err)
		}
	}
	return nil
}

// decimalValue exposes a decimal to validator tags as its string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func parseDecimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func decimalGTE0(fl validator.FieldLevel) bool {
	d, ok := parseDecimalField(fl)
	return ok && !d.IsNegative()
}

func decimalGT0(fl validator.FieldLevel) bool {
	d, ok := parseDecimalField(fl)
	return ok && d.IsPositive()
}
