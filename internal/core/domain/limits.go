package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// Storage bounds of ledger columns, checked by the entity validators.
const (
	MaxVoidReasonLength = 255
	MaxAmountScale      = 4
	MaxQuantity         = math.MaxInt32
)

// maxAmount is the exclusive upper bound of a NUMERIC(19,4) column.
var maxAmount = decimal.New(1, 19-MaxAmountScale)

var (
	ErrAmountScale        = errors.New("amount must have at most 4 decimal places")
	ErrAmountOutOfRange   = errors.New("amount is out of range")
	ErrQuantityOutOfRange = errors.New("line item quantity is out of range")
	ErrVoidReasonTooLong  = errors.New("void reason must be at most 255 characters")
)

// checkAmount rejects amounts the ledger cannot store exactly.
func checkAmount(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(MaxAmountScale)) {
		return ErrAmountScale
	}
	if d.Abs().GreaterThanOrEqual(maxAmount) {
		return ErrAmountOutOfRange
	}
	return nil
}
