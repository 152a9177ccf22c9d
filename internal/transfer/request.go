package transfer

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/gabapcia/txflow/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount cannot be expressed in the base
// units of the asset being sent.
var ErrInvalidAmount = errors.New("invalid amount")

// Kind is the purpose of a transaction, reported to the backend ledger.
type Kind string

const (
	KindTransfer   Kind = "transfer"
	KindWithdrawal Kind = "withdrawal"
	KindPayment    Kind = "payment"
)

// Request is a proposed transaction. It is immutable once a confirmation flow
// starts with it.
type Request struct {
	Amount    string `validate:"required,positive_decimal"`
	Token     string `validate:"required"`
	Recipient string `validate:"required"`
	Network   string `validate:"required"`
	Kind      Kind   `validate:"omitempty,oneof=transfer withdrawal payment"`
}

// Validate checks that the request is complete and its amount is positive.
func (r Request) Validate() error {
	return validator.Validate(r)
}

// TxKind returns the request kind, defaulting to KindTransfer.
func (r Request) TxKind() Kind {
	if r.Kind == "" {
		return KindTransfer
	}

	return r.Kind
}

// ToBaseUnits scales a positive decimal amount by 10^decimals. Amounts with
// more fractional digits than the asset supports are rejected.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	if !d.IsPositive() {
		return nil, fmt.Errorf("%w: %s must be greater than zero", ErrInvalidAmount, amount)
	}

	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, amount, decimals)
	}

	return scaled.BigInt(), nil
}

// toUint64BaseUnits is ToBaseUnits for assets whose amounts are encoded as u64.
func toUint64BaseUnits(amount string, decimals int32) (uint64, error) {
	v, err := ToBaseUnits(amount, decimals)
	if err != nil {
		return 0, err
	}

	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s overflows u64", ErrInvalidAmount, amount)
	}

	return v.Uint64(), nil
}

// FormatUnits renders a base-unit value with exactly places fractional digits.
func FormatUnits(value *big.Int, decimals int32, places int32) string {
	return decimal.NewFromBigInt(value, -decimals).StringFixed(places)
}
