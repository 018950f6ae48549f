// Package ohada implements the SYSCOHADA posting rules as pure checks over a
// proposed entry. Fatal rule breaks block persistence; combination and VAT
// checks only emit warnings.
package ohada

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
)

// Line is a draft movement joined with its account code.
type Line struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Result aggregates the outcome of all checks on one entry.
type Result struct {
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidateAccountClass fails unless the code's leading digit is 1-8.
func ValidateAccountClass(code string) error {
	_, err := accountdomain.ClassOf(code)
	return err
}

// ValidatePeriodOpen fails with ClosedPeriod when the year is closed and with
// OutOfPeriod when the date falls outside its bounds. Dates compare day-only.
func ValidatePeriodOpen(fy *journaldomain.FiscalYear, entryDate time.Time) error {
	if fy == nil {
		return ledgerdomain.ErrInvalidFiscalYear
	}
	if fy.Closed {
		return ledgerdomain.ErrClosedPeriod
	}
	if !fy.ContainsDate(entryDate) {
		return ledgerdomain.ErrOutOfPeriod
	}
	return nil
}

// CheckAccountCombinations warns when a balance-sheet movement (class 1-5) is
// paired against an income-statement movement (class 6-7) on opposite sides.
// Such direct postings normally only appear in year-end closing entries.
func CheckAccountCombinations(lines []Line) []string {
	var warnings []string
	for _, a := range lines {
		classA, err := accountdomain.ClassOf(a.AccountCode)
		if err != nil {
			continue
		}
		if classA > 5 || !a.Debit.IsPositive() {
			continue
		}
		for _, b := range lines {
			classB, err := accountdomain.ClassOf(b.AccountCode)
			if err != nil {
				continue
			}
			if (classB == 6 || classB == 7) && b.Credit.IsPositive() {
				warnings = append(warnings, fmt.Sprintf(
					"balance-sheet account %s debited against income-statement account %s; usually reserved for closing entries",
					a.AccountCode, b.AccountCode,
				))
			}
		}
	}
	for _, a := range lines {
		classA, err := accountdomain.ClassOf(a.AccountCode)
		if err != nil {
			continue
		}
		if classA > 5 || !a.Credit.IsPositive() {
			continue
		}
		for _, b := range lines {
			classB, err := accountdomain.ClassOf(b.AccountCode)
			if err != nil {
				continue
			}
			if (classB == 6 || classB == 7) && b.Debit.IsPositive() {
				warnings = append(warnings, fmt.Sprintf(
					"balance-sheet account %s credited against income-statement account %s; usually reserved for closing entries",
					a.AccountCode, b.AccountCode,
				))
			}
		}
	}
	return warnings
}

// CheckVatPresence warns when revenue is booked without collected VAT (443) or
// expense without deductible VAT (445).
func CheckVatPresence(lines []Line) []string {
	var warnings []string

	hasRevenue := false
	hasExpense := false
	hasCollected := false
	hasDeductible := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line.AccountCode, "7") && line.Credit.IsPositive():
			hasRevenue = true
		case strings.HasPrefix(line.AccountCode, "6") && line.Debit.IsPositive():
			hasExpense = true
		}
		if strings.HasPrefix(line.AccountCode, "443") {
			hasCollected = true
		}
		if strings.HasPrefix(line.AccountCode, "445") {
			hasDeductible = true
		}
	}

	if hasRevenue && !hasCollected {
		warnings = append(warnings, "revenue posted without collected VAT line (443)")
	}
	if hasExpense && !hasDeductible {
		warnings = append(warnings, "expense posted without deductible VAT line (445)")
	}
	return warnings
}

// CheckSingleSidedLines warns when one line moves both sides at once. A line
// is expected to be either a debit or a credit; both nonzero usually means a
// netting mistake that should have been two lines.
func CheckSingleSidedLines(lines []Line) []string {
	var warnings []string
	for _, line := range lines {
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			warnings = append(warnings, fmt.Sprintf(
				"account %s carries both a debit (%s) and a credit (%s) on the same line",
				line.AccountCode, line.Debit.StringFixed(2), line.Credit.StringFixed(2),
			))
		}
	}
	return warnings
}

// ValidateEntry runs every check against a proposed entry. Errors make the
// result invalid; warnings are advisory.
func ValidateEntry(fy *journaldomain.FiscalYear, entryDate time.Time, lines []Line) Result {
	result := Result{Valid: true}

	if err := ValidatePeriodOpen(fy, entryDate); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	for _, line := range lines {
		if err := ValidateAccountClass(line.AccountCode); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("account %s: %s", line.AccountCode, err.Error()))
		}
	}

	result.Warnings = append(result.Warnings, CheckAccountCombinations(lines)...)
	result.Warnings = append(result.Warnings, CheckVatPresence(lines)...)
	result.Warnings = append(result.Warnings, CheckSingleSidedLines(lines)...)

	result.Valid = len(result.Errors) == 0
	return result
}
