package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	obsmetrics "github.com/zinari/zinari/internal/observability/metrics"
	statementdomain "github.com/zinari/zinari/internal/statement/domain"
	statementrepository "github.com/zinari/zinari/internal/statement/repository"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Repo       statementrepository.Repository
	Accounts   accountdomain.Repository
	Journals   journaldomain.Repository
	Opening    statementdomain.OpeningBalanceProvider `optional:"true"`
	Log        *zap.Logger
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	repo       statementrepository.Repository
	accounts   accountdomain.Repository
	journals   journaldomain.Repository
	opening    statementdomain.OpeningBalanceProvider
	log        *zap.Logger
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) statementdomain.Service {
	opening := p.Opening
	if opening == nil {
		opening = zeroOpeningProvider{}
	}
	return &Service{
		repo:       p.Repo,
		accounts:   p.Accounts,
		journals:   p.Journals,
		opening:    opening,
		log:        p.Log.Named("statement.service"),
		obsMetrics: p.ObsMetrics,
	}
}

// zeroOpeningProvider stands in while prior-year carry-forward is not
// modeled: every account opens at zero.
type zeroOpeningProvider struct{}

func (zeroOpeningProvider) OpeningBalance(context.Context, tenant.Context, snowflake.ID, snowflake.ID) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func rowDebit(r statementrepository.Row, opts statementdomain.Options) decimal.Decimal {
	if opts.UseLocalCurrency {
		return r.DebitLocal
	}
	return r.Debit
}

func rowCredit(r statementrepository.Row, opts statementdomain.Options) decimal.Decimal {
	if opts.UseLocalCurrency {
		return r.CreditLocal
	}
	return r.Credit
}

// accountTotal is the per-account aggregation most reports start from.
type accountTotal struct {
	id     snowflake.ID
	code   string
	label  string
	debit  decimal.Decimal
	credit decimal.Decimal
}

func (s *Service) loadRows(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, report string) ([]statementrepository.Row, error) {
	if !tc.Valid() {
		return nil, companydomain.ErrInvalidCompany
	}
	fy, err := s.journals.FindFiscalYearByID(ctx, tc, fiscalYearID)
	if err != nil {
		return nil, err
	}
	if fy == nil {
		return nil, journaldomain.ErrFiscalYearNotFound
	}
	rows, err := s.repo.ListRows(ctx, tc, fiscalYearID)
	if err != nil {
		return nil, err
	}
	s.obsMetrics.RecordReport(ctx, report)
	return rows, nil
}

func aggregateByAccount(rows []statementrepository.Row, opts statementdomain.Options) []accountTotal {
	byID := make(map[snowflake.ID]*accountTotal)
	order := make([]snowflake.ID, 0)
	for _, r := range rows {
		t, ok := byID[r.AccountID]
		if !ok {
			t = &accountTotal{id: r.AccountID, code: r.AccountCode, label: r.AccountLabel}
			byID[r.AccountID] = t
			order = append(order, r.AccountID)
		}
		t.debit = t.debit.Add(rowDebit(r, opts))
		t.credit = t.credit.Add(rowCredit(r, opts))
	}
	totals := make([]accountTotal, 0, len(order))
	for _, id := range order {
		totals = append(totals, *byID[id])
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].code < totals[j].code })
	return totals
}

func (s *Service) TrialBalance(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts statementdomain.Options) (*statementdomain.TrialBalance, error) {
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "trial_balance")
	if err != nil {
		return nil, err
	}

	out := &statementdomain.TrialBalance{FiscalYearID: fiscalYearID, Rows: []statementdomain.TrialBalanceRow{}}
	for _, t := range aggregateByAccount(rows, opts) {
		balance := t.debit.Sub(t.credit)
		side := statementdomain.SideDebit
		if balance.IsNegative() {
			side = statementdomain.SideCredit
		}
		out.Rows = append(out.Rows, statementdomain.TrialBalanceRow{
			AccountID:    t.id,
			AccountCode:  t.code,
			AccountLabel: t.label,
			Debit:        t.debit,
			Credit:       t.credit,
			Balance:      balance,
			Side:         side,
		})
		out.TotalDebit = out.TotalDebit.Add(t.debit)
		out.TotalCredit = out.TotalCredit.Add(t.credit)
	}
	out.Balanced = out.TotalDebit.Sub(out.TotalCredit).Abs().LessThan(statementdomain.TrialBalanceTolerance)
	return out, nil
}

func (s *Service) BalanceSheet(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts statementdomain.Options) (*statementdomain.BalanceSheet, error) {
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "balance_sheet")
	if err != nil {
		return nil, err
	}

	out := &statementdomain.BalanceSheet{
		FiscalYearID:       fiscalYearID,
		FixedAssets:        []statementdomain.BalanceSheetLine{},
		CurrentAssets:      []statementdomain.BalanceSheetLine{},
		CashAssets:         []statementdomain.BalanceSheetLine{},
		Equity:             []statementdomain.BalanceSheetLine{},
		LongTermDebt:       []statementdomain.BalanceSheetLine{},
		CurrentLiabilities: []statementdomain.BalanceSheetLine{},
		CashLiabilities:    []statementdomain.BalanceSheetLine{},
	}
	var assets, liabilities decimal.Decimal
	for _, t := range aggregateByAccount(rows, opts) {
		balance := t.debit.Sub(t.credit)
		if balance.IsZero() {
			continue
		}
		line := statementdomain.BalanceSheetLine{
			AccountID:    t.id,
			AccountCode:  t.code,
			AccountLabel: t.label,
			Amount:       balance.Abs(),
		}
		switch t.code[0] {
		case '2':
			out.FixedAssets = append(out.FixedAssets, line)
			out.TotalFixedAssets = out.TotalFixedAssets.Add(balance)
			assets = assets.Add(balance)
		case '3':
			out.CurrentAssets = append(out.CurrentAssets, line)
			out.TotalCurrentAssets = out.TotalCurrentAssets.Add(balance)
			assets = assets.Add(balance)
		case '1':
			if strings.HasPrefix(t.code, "16") || strings.HasPrefix(t.code, "17") {
				line.Amount = balance.Neg()
				out.LongTermDebt = append(out.LongTermDebt, line)
			} else {
				line.Amount = balance.Neg()
				out.Equity = append(out.Equity, line)
			}
			liabilities = liabilities.Add(balance.Neg())
		case '4':
			if balance.IsPositive() {
				out.CurrentAssets = append(out.CurrentAssets, line)
				out.TotalCurrentAssets = out.TotalCurrentAssets.Add(balance)
				assets = assets.Add(balance)
			} else {
				out.CurrentLiabilities = append(out.CurrentLiabilities, line)
				liabilities = liabilities.Add(balance.Neg())
			}
		case '5':
			if balance.IsPositive() {
				out.CashAssets = append(out.CashAssets, line)
				out.TotalCashAssets = out.TotalCashAssets.Add(balance)
				assets = assets.Add(balance)
			} else {
				out.CashLiabilities = append(out.CashLiabilities, line)
				liabilities = liabilities.Add(balance.Neg())
			}
		}
	}
	out.TotalAssets = assets
	out.TotalLiabilities = liabilities
	out.Balanced = assets.Sub(liabilities).Abs().LessThan(statementdomain.BalanceSheetTolerance)
	return out, nil
}

func (s *Service) IncomeStatement(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts statementdomain.Options) (*statementdomain.IncomeStatement, error) {
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "income_statement")
	if err != nil {
		return nil, err
	}

	out := &statementdomain.IncomeStatement{
		FiscalYearID: fiscalYearID,
		Revenue:      []statementdomain.IncomeStatementLine{},
		Expenses:     []statementdomain.IncomeStatementLine{},
		HaoRevenue:   []statementdomain.IncomeStatementLine{},
		HaoExpenses:  []statementdomain.IncomeStatementLine{},
	}
	var haoRevenue, haoExpense decimal.Decimal
	for _, t := range aggregateByAccount(rows, opts) {
		switch t.code[0] {
		case '7':
			amount := t.credit.Sub(t.debit)
			out.Revenue = append(out.Revenue, statementdomain.IncomeStatementLine{
				AccountID: t.id, AccountCode: t.code, AccountLabel: t.label, Amount: amount,
			})
			out.TotalRevenue = out.TotalRevenue.Add(amount)
		case '6':
			amount := t.debit.Sub(t.credit)
			out.Expenses = append(out.Expenses, statementdomain.IncomeStatementLine{
				AccountID: t.id, AccountCode: t.code, AccountLabel: t.label, Amount: amount,
			})
			out.TotalExpense = out.TotalExpense.Add(amount)
		case '8':
			net := t.credit.Sub(t.debit)
			if net.IsZero() {
				continue
			}
			line := statementdomain.IncomeStatementLine{
				AccountID: t.id, AccountCode: t.code, AccountLabel: t.label, Amount: net.Abs(),
			}
			if net.IsPositive() {
				out.HaoRevenue = append(out.HaoRevenue, line)
				haoRevenue = haoRevenue.Add(net)
			} else {
				out.HaoExpenses = append(out.HaoExpenses, line)
				haoExpense = haoExpense.Add(net.Neg())
			}
		}
	}
	out.OperatingResult = out.TotalRevenue.Sub(out.TotalExpense)
	out.HaoResult = haoRevenue.Sub(haoExpense)
	out.NetResult = out.OperatingResult.Add(out.HaoResult)
	return out, nil
}

func (s *Service) VatReport(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts statementdomain.Options) (*statementdomain.VatReport, error) {
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "vat_report")
	if err != nil {
		return nil, err
	}

	out := &statementdomain.VatReport{FiscalYearID: fiscalYearID}
	for _, r := range rows {
		switch {
		case strings.HasPrefix(r.AccountCode, "443") || strings.HasPrefix(r.AccountCode, "444"):
			out.Collected = out.Collected.Add(rowCredit(r, opts)).Sub(rowDebit(r, opts))
		case strings.HasPrefix(r.AccountCode, "445"):
			out.Deductible = out.Deductible.Add(rowDebit(r, opts)).Sub(rowCredit(r, opts))
		}
	}
	out.VatToPay = out.Collected.Sub(out.Deductible)
	if out.VatToPay.IsNegative() {
		out.Status = statementdomain.VatCredit
	} else {
		out.Status = statementdomain.VatToPay
	}
	return out, nil
}

func (s *Service) CashFlow(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts statementdomain.Options) (*statementdomain.CashFlowStatement, error) {
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "cash_flow")
	if err != nil {
		return nil, err
	}

	// Group each entry's lines so a cash movement can see its
	// counter-accounts.
	byEntry := make(map[snowflake.ID][]statementrepository.Row)
	entryOrder := make([]snowflake.ID, 0)
	for _, r := range rows {
		if _, ok := byEntry[r.EntryID]; !ok {
			entryOrder = append(entryOrder, r.EntryID)
		}
		byEntry[r.EntryID] = append(byEntry[r.EntryID], r)
	}

	out := &statementdomain.CashFlowStatement{FiscalYearID: fiscalYearID}
	for _, entryID := range entryOrder {
		lines := byEntry[entryID]
		for i, r := range lines {
			if !strings.HasPrefix(r.AccountCode, "5") {
				continue
			}
			amount := rowDebit(r, opts).Sub(rowCredit(r, opts))
			if r.JournalCode == journaldomain.OpeningJournalCode {
				out.CashBegin = out.CashBegin.Add(amount)
				continue
			}
			counterCodes := make([]string, 0, len(lines)-1)
			for j, other := range lines {
				if j == i {
					continue
				}
				counterCodes = append(counterCodes, other.AccountCode)
			}
			switch statementdomain.ClassifyCashMovement(counterCodes) {
			case statementdomain.CashFlowInvesting:
				out.Investing = out.Investing.Add(amount)
			case statementdomain.CashFlowFinancing:
				out.Financing = out.Financing.Add(amount)
			default:
				out.Operating = out.Operating.Add(amount)
			}
		}
	}
	out.NetVariation = out.Operating.Add(out.Investing).Add(out.Financing)
	out.CashEnd = out.CashBegin.Add(out.NetVariation)
	return out, nil
}

func (s *Service) EquityChanges(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts statementdomain.Options) (*statementdomain.EquityChanges, error) {
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "equity_changes")
	if err != nil {
		return nil, err
	}

	components := []statementdomain.EquityComponent{
		statementdomain.EquityCapital,
		statementdomain.EquityReserves,
		statementdomain.EquityRetainedEarnings,
		statementdomain.EquityNetResult,
		statementdomain.EquityOther,
	}
	byComponent := make(map[statementdomain.EquityComponent]*statementdomain.EquityChangeRow, len(components))
	for _, c := range components {
		byComponent[c] = &statementdomain.EquityChangeRow{Component: c}
	}

	for _, r := range rows {
		if !strings.HasPrefix(r.AccountCode, "1") {
			continue
		}
		row := byComponent[statementdomain.EquityComponentOf(r.AccountCode)]
		if r.JournalCode == journaldomain.OpeningJournalCode {
			row.Initial = row.Initial.Add(rowCredit(r, opts)).Sub(rowDebit(r, opts))
			continue
		}
		row.Increases = row.Increases.Add(rowCredit(r, opts))
		row.Decreases = row.Decreases.Add(rowDebit(r, opts))
	}

	out := &statementdomain.EquityChanges{FiscalYearID: fiscalYearID, Rows: make([]statementdomain.EquityChangeRow, 0, len(components))}
	for _, c := range components {
		row := byComponent[c]
		row.Final = row.Initial.Add(row.Increases).Sub(row.Decreases)
		out.Rows = append(out.Rows, *row)
		out.TotalInitial = out.TotalInitial.Add(row.Initial)
		out.TotalFinal = out.TotalFinal.Add(row.Final)
	}
	return out, nil
}

func (s *Service) SixColumnBalance(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID, opts statementdomain.Options) (*statementdomain.SixColumnBalance, error) {
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "six_column_balance")
	if err != nil {
		return nil, err
	}

	out := &statementdomain.SixColumnBalance{FiscalYearID: fiscalYearID, Rows: []statementdomain.SixColumnRow{}}
	for _, t := range aggregateByAccount(rows, opts) {
		opening, err := s.opening.OpeningBalance(ctx, tc, t.id, fiscalYearID)
		if err != nil {
			return nil, err
		}
		row := statementdomain.SixColumnRow{
			AccountID:      t.id,
			AccountCode:    t.code,
			AccountLabel:   t.label,
			MovementDebit:  t.debit,
			MovementCredit: t.credit,
		}
		if opening.IsNegative() {
			row.InitialCredit = opening.Neg()
		} else {
			row.InitialDebit = opening
		}
		final := opening.Add(t.debit).Sub(t.credit)
		if final.IsNegative() {
			row.FinalCredit = final.Neg()
		} else {
			row.FinalDebit = final
		}
		out.Rows = append(out.Rows, row)
		out.TotalDebit = out.TotalDebit.Add(row.FinalDebit)
		out.TotalCredit = out.TotalCredit.Add(row.FinalCredit)
	}
	return out, nil
}

func (s *Service) GeneralLedger(ctx context.Context, tc tenant.Context, accountID, fiscalYearID snowflake.ID, opts statementdomain.Options) (*statementdomain.GeneralLedger, error) {
	account, err := s.accounts.FindByID(ctx, tc, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrNotFound
	}
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "general_ledger")
	if err != nil {
		return nil, err
	}

	out := &statementdomain.GeneralLedger{
		AccountID:    account.ID,
		AccountCode:  account.Code,
		AccountLabel: account.Label,
		FiscalYearID: fiscalYearID,
		Movements:    []statementdomain.Movement{},
	}
	var running decimal.Decimal
	for _, r := range rows {
		if r.AccountID != accountID {
			continue
		}
		debit, credit := rowDebit(r, opts), rowCredit(r, opts)
		running = running.Add(debit).Sub(credit)
		out.Movements = append(out.Movements, statementdomain.Movement{
			EntryID:     r.EntryID,
			Reference:   r.Reference,
			EntryDate:   r.EntryDate,
			AccountCode: r.AccountCode,
			Label:       r.Label,
			Debit:       debit,
			Credit:      credit,
			Running:     running,
		})
		out.TotalDebit = out.TotalDebit.Add(debit)
		out.TotalCredit = out.TotalCredit.Add(credit)
	}
	out.Balance = out.TotalDebit.Sub(out.TotalCredit)
	return out, nil
}

func (s *Service) AuxiliaryJournal(ctx context.Context, tc tenant.Context, journalCode string, fiscalYearID snowflake.ID, month int, opts statementdomain.Options) (*statementdomain.AuxiliaryJournal, error) {
	journal, err := s.journals.FindJournalByCode(ctx, tc, journalCode)
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, journaldomain.ErrJournalNotFound
	}
	rows, err := s.loadRows(ctx, tc, fiscalYearID, "auxiliary_journal")
	if err != nil {
		return nil, err
	}

	out := &statementdomain.AuxiliaryJournal{
		JournalCode:  journal.Code,
		FiscalYearID: fiscalYearID,
		Month:        month,
		Movements:    []statementdomain.Movement{},
	}
	var running decimal.Decimal
	for _, r := range rows {
		if r.JournalID != journal.ID {
			continue
		}
		if month >= 1 && month <= 12 && int(r.EntryDate.Month()) != month {
			continue
		}
		debit, credit := rowDebit(r, opts), rowCredit(r, opts)
		running = running.Add(debit).Sub(credit)
		out.Movements = append(out.Movements, statementdomain.Movement{
			EntryID:     r.EntryID,
			Reference:   r.Reference,
			EntryDate:   r.EntryDate,
			AccountCode: r.AccountCode,
			Label:       r.Label,
			Debit:       debit,
			Credit:      credit,
			Running:     running,
		})
		out.TotalDebit = out.TotalDebit.Add(debit)
		out.TotalCredit = out.TotalCredit.Add(credit)
	}
	return out, nil
}
