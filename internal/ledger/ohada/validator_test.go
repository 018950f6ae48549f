package ohada

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	"github.com/stretchr/testify/assert"
)

func openYear() *journaldomain.FiscalYear {
	return &journaldomain.FiscalYear{
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidatePeriodOpen(t *testing.T) {
	inYear := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidatePeriodOpen(openYear(), inYear))
	assert.ErrorIs(t, ValidatePeriodOpen(nil, inYear), ledgerdomain.ErrInvalidFiscalYear)

	closed := openYear()
	closed.Closed = true
	assert.ErrorIs(t, ValidatePeriodOpen(closed, inYear), ledgerdomain.ErrClosedPeriod)

	outOfYear := time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, ValidatePeriodOpen(openYear(), outOfYear), ledgerdomain.ErrOutOfPeriod)

	// Boundary days count as inside, whatever the time of day.
	lastDay := time.Date(2026, 12, 31, 23, 30, 0, 0, time.UTC)
	assert.NoError(t, ValidatePeriodOpen(openYear(), lastDay))
}

func TestCheckAccountCombinations(t *testing.T) {
	// Client settlement against a bank account, no income-statement side.
	clean := []Line{
		{AccountCode: "521000", Debit: decimal.NewFromInt(100)},
		{AccountCode: "411000", Credit: decimal.NewFromInt(100)},
	}
	assert.Empty(t, CheckAccountCombinations(clean))

	// Equity debited directly against revenue.
	suspicious := []Line{
		{AccountCode: "101000", Debit: decimal.NewFromInt(500)},
		{AccountCode: "701000", Credit: decimal.NewFromInt(500)},
	}
	warnings := CheckAccountCombinations(suspicious)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "101000")
	assert.Contains(t, warnings[0], "701000")
}

func TestCheckVatPresence(t *testing.T) {
	saleWithVat := []Line{
		{AccountCode: "411000", Debit: decimal.NewFromInt(1392)},
		{AccountCode: "701000", Credit: decimal.NewFromInt(1200)},
		{AccountCode: "443000", Credit: decimal.NewFromInt(192)},
	}
	assert.Empty(t, CheckVatPresence(saleWithVat))

	saleWithoutVat := []Line{
		{AccountCode: "411000", Debit: decimal.NewFromInt(1200)},
		{AccountCode: "701000", Credit: decimal.NewFromInt(1200)},
	}
	warnings := CheckVatPresence(saleWithoutVat)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "443")

	purchaseWithoutVat := []Line{
		{AccountCode: "601000", Debit: decimal.NewFromInt(800)},
		{AccountCode: "401000", Credit: decimal.NewFromInt(800)},
	}
	warnings = CheckVatPresence(purchaseWithoutVat)
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "445")
}

func TestCheckSingleSidedLines(t *testing.T) {
	clean := CheckSingleSidedLines([]Line{
		{AccountCode: "521000", Debit: decimal.NewFromInt(100)},
		{AccountCode: "411000", Credit: decimal.NewFromInt(100)},
	})
	assert.Empty(t, clean)

	warnings := CheckSingleSidedLines([]Line{
		{AccountCode: "411000", Debit: decimal.NewFromInt(300), Credit: decimal.NewFromInt(100)},
		{AccountCode: "521000", Credit: decimal.NewFromInt(200)},
	})
	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "411000")
	assert.Contains(t, warnings[0], "300.00")
	assert.Contains(t, warnings[0], "100.00")
}

func TestValidateEntry(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	lines := []Line{
		{AccountCode: "411000", Debit: decimal.NewFromInt(1392)},
		{AccountCode: "701000", Credit: decimal.NewFromInt(1200)},
		{AccountCode: "443000", Credit: decimal.NewFromInt(192)},
	}
	result := ValidateEntry(openYear(), date, lines)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)

	badClass := []Line{
		{AccountCode: "011000", Debit: decimal.NewFromInt(100)},
		{AccountCode: "901000", Credit: decimal.NewFromInt(100)},
	}
	result = ValidateEntry(openYear(), date, badClass)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)

	closed := openYear()
	closed.Closed = true
	result = ValidateEntry(closed, date, lines)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], ledgerdomain.ErrClosedPeriod.Error())
}
