package domain

import "github.com/shopspring/decimal"

// BalanceTolerance is the largest debit/credit divergence accepted on a
// validated entry.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// SumDebit totals the debit side of a draft's lines.
func SumDebit(lines []LineDraft) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}

// SumCredit totals the credit side of a draft's lines.
func SumCredit(lines []LineDraft) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Credit)
	}
	return total
}

// CheckBalanced returns an UnbalancedEntryError when the two sides diverge by
// more than BalanceTolerance.
func CheckBalanced(lines []LineDraft) error {
	debit := SumDebit(lines)
	credit := SumCredit(lines)
	if debit.Sub(credit).Abs().GreaterThan(BalanceTolerance) {
		return &UnbalancedEntryError{Debit: debit, Credit: credit}
	}
	return nil
}
