package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEntryNotFound      = errors.New("entry_not_found")
	ErrInvalidEntryStatus = errors.New("invalid_entry_status")
	ErrValidatedImmutable = errors.New("validated_entry_immutable")
	ErrClosedPeriod       = errors.New("closed_period")
	ErrOutOfPeriod        = errors.New("out_of_period")
	ErrInvalidFiscalYear  = errors.New("invalid_fiscal_year")
	ErrInvalidLines       = errors.New("invalid_entry_lines")
	ErrNotTrashed         = errors.New("entry_not_trashed")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidEntryDate   = errors.New("invalid_entry_date")
)

// UnbalancedEntryError carries the offending debit/credit totals.
type UnbalancedEntryError struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("unbalanced_entry: debit=%s credit=%s", e.Debit.StringFixed(2), e.Credit.StringFixed(2))
}

// IsUnbalanced reports whether err is an UnbalancedEntryError.
func IsUnbalanced(err error) bool {
	var target *UnbalancedEntryError
	return errors.As(err, &target)
}

// ValidationFailedError aggregates fatal OHADA rule failures.
type ValidationFailedError struct {
	Reasons []string
}

func (e *ValidationFailedError) Error() string {
	return "validation_failed: " + strings.Join(e.Reasons, "; ")
}
