package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/zinari/zinari/pkg/tenant"
)

// Tolerances used when flagging a report as balanced. The trial balance
// compares grand totals, the balance sheet compares the two sides.
var (
	TrialBalanceTolerance = decimal.NewFromFloat(0.1)
	BalanceSheetTolerance = decimal.NewFromFloat(1.0)
)

type BalanceSide string

const (
	SideDebit  BalanceSide = "DEBIT"
	SideCredit BalanceSide = "CREDIT"
)

// Options applies to every report. UseLocalCurrency selects the
// local-currency amount fields instead of the transaction-currency ones.
type Options struct {
	UseLocalCurrency bool `json:"use_local_currency"`
}

type TrialBalanceRow struct {
	AccountID    snowflake.ID    `json:"account_id"`
	AccountCode  string          `json:"account_code"`
	AccountLabel string          `json:"account_label"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Balance      decimal.Decimal `json:"balance"`
	Side         BalanceSide     `json:"side"`
}

type TrialBalance struct {
	FiscalYearID snowflake.ID      `json:"fiscal_year_id"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebit   decimal.Decimal   `json:"total_debit"`
	TotalCredit  decimal.Decimal   `json:"total_credit"`
	Balanced     bool              `json:"balanced"`
}

type BalanceSheetLine struct {
	AccountID    snowflake.ID    `json:"account_id"`
	AccountCode  string          `json:"account_code"`
	AccountLabel string          `json:"account_label"`
	Amount       decimal.Decimal `json:"amount"`
}

type BalanceSheet struct {
	FiscalYearID snowflake.ID `json:"fiscal_year_id"`

	FixedAssets   []BalanceSheetLine `json:"fixed_assets"`
	CurrentAssets []BalanceSheetLine `json:"current_assets"`
	CashAssets    []BalanceSheetLine `json:"cash_assets"`

	Equity             []BalanceSheetLine `json:"equity"`
	LongTermDebt       []BalanceSheetLine `json:"long_term_debt"`
	CurrentLiabilities []BalanceSheetLine `json:"current_liabilities"`
	CashLiabilities    []BalanceSheetLine `json:"cash_liabilities"`

	TotalFixedAssets   decimal.Decimal `json:"total_fixed_assets"`
	TotalCurrentAssets decimal.Decimal `json:"total_current_assets"`
	TotalCashAssets    decimal.Decimal `json:"total_cash_assets"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	Balanced           bool            `json:"balanced"`
}

type IncomeStatementLine struct {
	AccountID    snowflake.ID    `json:"account_id"`
	AccountCode  string          `json:"account_code"`
	AccountLabel string          `json:"account_label"`
	Amount       decimal.Decimal `json:"amount"`
}

type IncomeStatement struct {
	FiscalYearID snowflake.ID `json:"fiscal_year_id"`

	Revenue     []IncomeStatementLine `json:"revenue"`
	Expenses    []IncomeStatementLine `json:"expenses"`
	HaoRevenue  []IncomeStatementLine `json:"hao_revenue"`
	HaoExpenses []IncomeStatementLine `json:"hao_expenses"`

	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	OperatingResult decimal.Decimal `json:"operating_result"`
	HaoResult       decimal.Decimal `json:"hao_result"`
	NetResult       decimal.Decimal `json:"net_result"`
}

type VatStatus string

const (
	VatToPay  VatStatus = "TO_PAY"
	VatCredit VatStatus = "CREDIT"
)

type VatReport struct {
	FiscalYearID snowflake.ID    `json:"fiscal_year_id"`
	Collected    decimal.Decimal `json:"collected"`
	Deductible   decimal.Decimal `json:"deductible"`
	VatToPay     decimal.Decimal `json:"vat_to_pay"`
	Status       VatStatus       `json:"status"`
}

type CashFlowCategory string

const (
	CashFlowOperating CashFlowCategory = "OPERATING"
	CashFlowInvesting CashFlowCategory = "INVESTING"
	CashFlowFinancing CashFlowCategory = "FINANCING"
)

type CashFlowStatement struct {
	FiscalYearID snowflake.ID    `json:"fiscal_year_id"`
	Operating    decimal.Decimal `json:"operating"`
	Investing    decimal.Decimal `json:"investing"`
	Financing    decimal.Decimal `json:"financing"`
	NetVariation decimal.Decimal `json:"net_variation"`
	CashBegin    decimal.Decimal `json:"cash_begin"`
	CashEnd      decimal.Decimal `json:"cash_end"`
}

type EquityComponent string

const (
	EquityCapital          EquityComponent = "CAPITAL"
	EquityReserves         EquityComponent = "RESERVES"
	EquityRetainedEarnings EquityComponent = "RETAINED_EARNINGS"
	EquityNetResult        EquityComponent = "NET_RESULT"
	EquityOther            EquityComponent = "OTHER"
)

type EquityChangeRow struct {
	Component EquityComponent `json:"component"`
	Initial   decimal.Decimal `json:"initial"`
	Increases decimal.Decimal `json:"increases"`
	Decreases decimal.Decimal `json:"decreases"`
	Final     decimal.Decimal `json:"final"`
}

type EquityChanges struct {
	FiscalYearID snowflake.ID      `json:"fiscal_year_id"`
	Rows         []EquityChangeRow `json:"rows"`
	TotalInitial decimal.Decimal   `json:"total_initial"`
	TotalFinal   decimal.Decimal   `json:"total_final"`
}

type SixColumnRow struct {
	AccountID    snowflake.ID    `json:"account_id"`
	AccountCode  string          `json:"account_code"`
	AccountLabel string          `json:"account_label"`

	InitialDebit   decimal.Decimal `json:"initial_debit"`
	InitialCredit  decimal.Decimal `json:"initial_credit"`
	MovementDebit  decimal.Decimal `json:"movement_debit"`
	MovementCredit decimal.Decimal `json:"movement_credit"`
	FinalDebit     decimal.Decimal `json:"final_debit"`
	FinalCredit    decimal.Decimal `json:"final_credit"`
}

type SixColumnBalance struct {
	FiscalYearID snowflake.ID    `json:"fiscal_year_id"`
	Rows         []SixColumnRow  `json:"rows"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
}

type Movement struct {
	EntryID     snowflake.ID    `json:"entry_id"`
	Reference   string          `json:"reference"`
	EntryDate   time.Time       `json:"entry_date"`
	AccountCode string          `json:"account_code"`
	Label       string          `json:"label,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Running     decimal.Decimal `json:"running"`
}

type GeneralLedger struct {
	AccountID    snowflake.ID    `json:"account_id"`
	AccountCode  string          `json:"account_code"`
	AccountLabel string          `json:"account_label"`
	FiscalYearID snowflake.ID    `json:"fiscal_year_id"`
	Movements    []Movement      `json:"movements"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
	Balance      decimal.Decimal `json:"balance"`
}

type AuxiliaryJournal struct {
	JournalCode  string          `json:"journal_code"`
	FiscalYearID snowflake.ID    `json:"fiscal_year_id"`
	Month        int             `json:"month,omitempty"`
	Movements    []Movement      `json:"movements"`
	TotalDebit   decimal.Decimal `json:"total_debit"`
	TotalCredit  decimal.Decimal `json:"total_credit"`
}

// OpeningBalanceProvider supplies the prior-year carry-forward of an account
// for the six-column balance. The default implementation returns zero.
type OpeningBalanceProvider interface {
	OpeningBalance(ctx context.Context, tc tenant.Context, accountID, fiscalYearID snowflake.ID) (decimal.Decimal, error)
}

// Service computes financial statements over validated, non-deleted entry
// lines of one fiscal year. All computations are read-only; running the same
// report twice against unchanged committed state returns identical output.
type Service interface {
	TrialBalance(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts Options) (*TrialBalance, error)
	BalanceSheet(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts Options) (*BalanceSheet, error)
	IncomeStatement(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts Options) (*IncomeStatement, error)
	VatReport(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts Options) (*VatReport, error)
	CashFlow(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts Options) (*CashFlowStatement, error)
	EquityChanges(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts Options) (*EquityChanges, error)
	SixColumnBalance(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts Options) (*SixColumnBalance, error)
	GeneralLedger(ctx context.Context, tc tenant.Context, accountID, fiscalYearID snowflake.ID, opts Options) (*GeneralLedger, error)
	// AuxiliaryJournal lists the movements of one journal; month 1-12
	// restricts to that calendar month, 0 keeps the whole year.
	AuxiliaryJournal(ctx context.Context, tc tenant.Context, journalCode string, fiscalYearID snowflake.ID, month int, opts Options) (*AuxiliaryJournal, error)
}
