// Package validator wraps go-playground/validator with a lazily initialized
// singleton, the custom tags used by the transaction flow, and a standardized
// error chain rooted at ErrValidation.
package validator

import (
	"errors"
	"fmt"
	"sync"

	gvalidator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validator         *gvalidator.Validate
	initValidatorOnce sync.Once
)

// ErrValidation is the first error of the chain returned when validation fails.
var ErrValidation = errors.New("validation error")

// errStringFormat describes a single violated rule.
//
// Example: "'Amount': value 'abc' does not meet the requirements for the 'positive_decimal' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

// positiveDecimal accepts strings that parse as a decimal number greater than zero.
func positiveDecimal(fl gvalidator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return d.IsPositive()
}

// Init builds the singleton validator and registers the custom tags:
//
//   - positive_decimal: a base-10 decimal string strictly greater than zero
//
// It is safe to call Init multiple times.
func Init() {
	initValidatorOnce.Do(func() {
		validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())
		if err := validator.RegisterValidation("positive_decimal", positiveDecimal); err != nil {
			panic(err)
		}
	})
}

func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidation}
	for _, validationErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` struct tags. It returns nil when
// every rule holds, otherwise an error chain starting with ErrValidation and
// followed by one message per failed field.
func Validate(v any) error {
	Init()

	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}
