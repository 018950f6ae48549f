package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	accountrepository "github.com/zinari/zinari/internal/account/repository"
	auditdomain "github.com/zinari/zinari/internal/audit/domain"
	auditservice "github.com/zinari/zinari/internal/audit/service"
	"github.com/zinari/zinari/internal/clock"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	journalrepository "github.com/zinari/zinari/internal/journal/repository"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	ledgerservice "github.com/zinari/zinari/internal/ledger/service"
	statementdomain "github.com/zinari/zinari/internal/statement/domain"
	statementrepository "github.com/zinari/zinari/internal/statement/repository"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	svc      statementdomain.Service
	ledger   ledgerdomain.Service
	db       *gorm.DB
	node     *snowflake.Node
	tc       tenant.Context
	yearID   snowflake.ID
	journals map[string]snowflake.ID
	accounts map[string]snowflake.ID
}

var seedAccounts = []string{
	"101000", "162000", "244000", "401000", "411000",
	"443000", "445000", "521000", "601000", "701000",
}

var seedJournals = []struct {
	code string
	typ  journaldomain.JournalType
}{
	{"VT", journaldomain.JournalSale},
	{"BQ", journaldomain.JournalBank},
	{journaldomain.OpeningJournalCode, journaldomain.JournalOD},
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&companydomain.Company{},
		&accountdomain.Account{},
		&journaldomain.Journal{},
		&journaldomain.FiscalYear{},
		&ledgerdomain.Entry{},
		&ledgerdomain.EntryLine{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	f := &fixture{
		db:       db,
		node:     node,
		journals: map[string]snowflake.ID{},
		accounts: map[string]snowflake.ID{},
	}

	companyID := node.Generate()
	f.tc = tenant.Context{CompanyID: companyID}
	require.NoError(t, db.Create(&companydomain.Company{
		ID: companyID, Name: "Testco", Currency: "XOF", CreatedAt: fc.Now(), UpdatedAt: fc.Now(),
	}).Error)

	for _, code := range seedAccounts {
		class, err := accountdomain.ClassOf(code)
		require.NoError(t, err)
		typ := accountdomain.DeriveType(code, class)
		id := node.Generate()
		f.accounts[code] = id
		require.NoError(t, db.Create(&accountdomain.Account{
			ID:            id,
			CompanyID:     companyID,
			Code:          code,
			Label:         "Compte " + code,
			Class:         class,
			Type:          typ,
			NormalBalance: accountdomain.DeriveNormalBalance(typ),
			Level:         1,
			CreatedAt:     fc.Now(),
			UpdatedAt:     fc.Now(),
		}).Error)
	}

	for _, j := range seedJournals {
		id := node.Generate()
		f.journals[j.code] = id
		require.NoError(t, db.Create(&journaldomain.Journal{
			ID: id, CompanyID: companyID, Code: j.code,
			Label: j.code, Type: j.typ, CreatedAt: fc.Now(),
		}).Error)
	}

	f.yearID = node.Generate()
	require.NoError(t, db.Create(&journaldomain.FiscalYear{
		ID: f.yearID, CompanyID: companyID, Label: "2026",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt: fc.Now(),
	}).Error)

	auditSvc := auditservice.NewService(auditservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc,
	})
	f.ledger = ledgerservice.NewService(ledgerservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc, AuditSvc: auditSvc,
	})

	f.svc = NewService(Params{
		Repo:     statementrepository.NewRepository(db),
		Accounts: accountrepository.NewRepository(db),
		Journals: journalrepository.NewRepository(db),
		Log:      log,
	})
	return f
}

type draftLine struct {
	code   string
	debit  int64
	credit int64
}

func (f *fixture) post(t *testing.T, journalCode string, date time.Time, status ledgerdomain.EntryStatus, lines ...draftLine) *ledgerdomain.Entry {
	t.Helper()
	drafts := make([]ledgerdomain.LineDraft, 0, len(lines))
	for _, l := range lines {
		drafts = append(drafts, ledgerdomain.LineDraft{
			AccountID: f.accounts[l.code],
			Label:     "Mouvement " + l.code,
			Debit:     decimal.NewFromInt(l.debit),
			Credit:    decimal.NewFromInt(l.credit),
		})
	}
	res, err := f.ledger.Create(context.Background(), f.tc, ledgerdomain.EntryDraft{
		JournalID: f.journals[journalCode],
		EntryDate: date,
		Currency:  "XOF",
		Status:    status,
		Lines:     drafts,
	})
	require.NoError(t, err)
	return res.Entry
}

func (f *fixture) postSale(t *testing.T, date time.Time) {
	t.Helper()
	f.post(t, "VT", date, ledgerdomain.StatusValidated,
		draftLine{code: "411000", debit: 1392},
		draftLine{code: "701000", credit: 1200},
		draftLine{code: "443000", credit: 192},
	)
}

func march() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) }

func TestTrialBalance(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, march())

	tb, err := f.svc.TrialBalance(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "1392.00", tb.TotalDebit.StringFixed(2))
	assert.Equal(t, "1392.00", tb.TotalCredit.StringFixed(2))
	assert.True(t, tb.Balanced)
	require.Len(t, tb.Rows, 3)

	// Rows come back sorted by account code.
	assert.Equal(t, "411000", tb.Rows[0].AccountCode)
	assert.Equal(t, statementdomain.SideDebit, tb.Rows[0].Side)
	assert.Equal(t, "443000", tb.Rows[1].AccountCode)
	assert.Equal(t, statementdomain.SideCredit, tb.Rows[1].Side)
	assert.Equal(t, "-192.00", tb.Rows[1].Balance.StringFixed(2))
	assert.Equal(t, "701000", tb.Rows[2].AccountCode)
}

func TestTrialBalanceIgnoresProvisionalEntries(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, march())
	f.post(t, "VT", march(), ledgerdomain.StatusProvisional,
		draftLine{code: "411000", debit: 9999},
		draftLine{code: "701000", credit: 9999},
	)

	tb, err := f.svc.TrialBalance(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)
	assert.Equal(t, "1392.00", tb.TotalDebit.StringFixed(2))
}

func TestTrialBalanceLocalCurrency(t *testing.T) {
	f := newFixture(t)

	res, err := f.ledger.Create(context.Background(), f.tc, ledgerdomain.EntryDraft{
		JournalID:    f.journals["VT"],
		EntryDate:    march(),
		Currency:     "EUR",
		ExchangeRate: decimal.NewFromInt(2),
		Status:       ledgerdomain.StatusValidated,
		Lines: []ledgerdomain.LineDraft{
			{AccountID: f.accounts["411000"], Debit: decimal.NewFromInt(100)},
			{AccountID: f.accounts["701000"], Credit: decimal.NewFromInt(100)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Entry)

	tb, err := f.svc.TrialBalance(context.Background(), f.tc, f.yearID, statementdomain.Options{UseLocalCurrency: true})
	require.NoError(t, err)
	assert.Equal(t, "200.00", tb.TotalDebit.StringFixed(2))
}

func TestTrialBalanceUnknownFiscalYear(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.TrialBalance(context.Background(), f.tc, f.node.Generate(), statementdomain.Options{})
	assert.ErrorIs(t, err, journaldomain.ErrFiscalYearNotFound)

	_, err = f.svc.TrialBalance(context.Background(), tenant.Context{}, f.yearID, statementdomain.Options{})
	assert.ErrorIs(t, err, companydomain.ErrInvalidCompany)
}

func TestBalanceSheet(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, march())

	bs, err := f.svc.BalanceSheet(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "1392.00", bs.TotalCurrentAssets.StringFixed(2))
	require.Len(t, bs.CurrentAssets, 1)
	assert.Equal(t, "411000", bs.CurrentAssets[0].AccountCode)

	require.Len(t, bs.CurrentLiabilities, 1)
	assert.Equal(t, "443000", bs.CurrentLiabilities[0].AccountCode)
	assert.Equal(t, "192.00", bs.CurrentLiabilities[0].Amount.StringFixed(2))

	// The 1200 profit is not folded into equity here, so the sheet cannot
	// balance until a closing entry books the net result.
	assert.False(t, bs.Balanced)
}

func TestIncomeStatement(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, march())
	f.post(t, "BQ", march(), ledgerdomain.StatusValidated,
		draftLine{code: "601000", debit: 800},
		draftLine{code: "445000", debit: 144},
		draftLine{code: "401000", credit: 944},
	)

	is, err := f.svc.IncomeStatement(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "1200.00", is.TotalRevenue.StringFixed(2))
	assert.Equal(t, "800.00", is.TotalExpense.StringFixed(2))
	assert.Equal(t, "400.00", is.OperatingResult.StringFixed(2))
	assert.Equal(t, "400.00", is.NetResult.StringFixed(2))
}

func TestVatReport(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, march())
	f.post(t, "BQ", march(), ledgerdomain.StatusValidated,
		draftLine{code: "601000", debit: 800},
		draftLine{code: "445000", debit: 144},
		draftLine{code: "401000", credit: 944},
	)

	vat, err := f.svc.VatReport(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "192.00", vat.Collected.StringFixed(2))
	assert.Equal(t, "144.00", vat.Deductible.StringFixed(2))
	assert.Equal(t, "48.00", vat.VatToPay.StringFixed(2))
	assert.Equal(t, statementdomain.VatToPay, vat.Status)
}

func TestVatReportCredit(t *testing.T) {
	f := newFixture(t)
	f.post(t, "BQ", march(), ledgerdomain.StatusValidated,
		draftLine{code: "601000", debit: 800},
		draftLine{code: "445000", debit: 144},
		draftLine{code: "401000", credit: 944},
	)

	vat, err := f.svc.VatReport(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)
	assert.Equal(t, "-144.00", vat.VatToPay.StringFixed(2))
	assert.Equal(t, statementdomain.VatCredit, vat.Status)
}

func TestCashFlow(t *testing.T) {
	f := newFixture(t)

	// Opening balance: cash 5000 against capital.
	f.post(t, journaldomain.OpeningJournalCode, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ledgerdomain.StatusValidated,
		draftLine{code: "521000", debit: 5000},
		draftLine{code: "101000", credit: 5000},
	)
	// Client settlement: operating inflow.
	f.post(t, "BQ", march(), ledgerdomain.StatusValidated,
		draftLine{code: "521000", debit: 1392},
		draftLine{code: "411000", credit: 1392},
	)
	// Loan drawdown: financing inflow.
	f.post(t, "BQ", march(), ledgerdomain.StatusValidated,
		draftLine{code: "521000", debit: 2000},
		draftLine{code: "162000", credit: 2000},
	)
	// Fixed asset purchase: investing outflow.
	f.post(t, "BQ", march(), ledgerdomain.StatusValidated,
		draftLine{code: "244000", debit: 3000},
		draftLine{code: "521000", credit: 3000},
	)

	cf, err := f.svc.CashFlow(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "5000.00", cf.CashBegin.StringFixed(2))
	assert.Equal(t, "1392.00", cf.Operating.StringFixed(2))
	assert.Equal(t, "2000.00", cf.Financing.StringFixed(2))
	assert.Equal(t, "-3000.00", cf.Investing.StringFixed(2))
	assert.Equal(t, "392.00", cf.NetVariation.StringFixed(2))
	assert.Equal(t, "5392.00", cf.CashEnd.StringFixed(2))
}

func TestEquityChanges(t *testing.T) {
	f := newFixture(t)

	f.post(t, journaldomain.OpeningJournalCode, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), ledgerdomain.StatusValidated,
		draftLine{code: "521000", debit: 5000},
		draftLine{code: "101000", credit: 5000},
	)
	// Capital increase during the year.
	f.post(t, "BQ", march(), ledgerdomain.StatusValidated,
		draftLine{code: "521000", debit: 1000},
		draftLine{code: "101000", credit: 1000},
	)

	eq, err := f.svc.EquityChanges(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)

	var capital statementdomain.EquityChangeRow
	for _, row := range eq.Rows {
		if row.Component == statementdomain.EquityCapital {
			capital = row
		}
	}
	assert.Equal(t, "5000.00", capital.Initial.StringFixed(2))
	assert.Equal(t, "1000.00", capital.Increases.StringFixed(2))
	assert.Equal(t, "6000.00", capital.Final.StringFixed(2))
	assert.Equal(t, "5000.00", eq.TotalInitial.StringFixed(2))
	assert.Equal(t, "6000.00", eq.TotalFinal.StringFixed(2))
}

func TestSixColumnBalance(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, march())

	six, err := f.svc.SixColumnBalance(context.Background(), f.tc, f.yearID, statementdomain.Options{})
	require.NoError(t, err)
	require.Len(t, six.Rows, 3)

	client := six.Rows[0]
	assert.Equal(t, "411000", client.AccountCode)
	assert.True(t, client.InitialDebit.IsZero())
	assert.Equal(t, "1392.00", client.MovementDebit.StringFixed(2))
	assert.Equal(t, "1392.00", client.FinalDebit.StringFixed(2))

	vat := six.Rows[1]
	assert.Equal(t, "443000", vat.AccountCode)
	assert.Equal(t, "192.00", vat.FinalCredit.StringFixed(2))
}

func TestGeneralLedger(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, march())
	f.post(t, "BQ", time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), ledgerdomain.StatusValidated,
		draftLine{code: "521000", debit: 1392},
		draftLine{code: "411000", credit: 1392},
	)

	gl, err := f.svc.GeneralLedger(context.Background(), f.tc, f.accounts["411000"], f.yearID, statementdomain.Options{})
	require.NoError(t, err)

	assert.Equal(t, "411000", gl.AccountCode)
	require.Len(t, gl.Movements, 2)
	assert.Equal(t, "1392.00", gl.Movements[0].Running.StringFixed(2))
	assert.Equal(t, "0.00", gl.Movements[1].Running.StringFixed(2))
	assert.Equal(t, "0.00", gl.Balance.StringFixed(2))
}

func TestGeneralLedgerUnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GeneralLedger(context.Background(), f.tc, f.node.Generate(), f.yearID, statementdomain.Options{})
	assert.ErrorIs(t, err, accountdomain.ErrNotFound)
}

func TestAuxiliaryJournal(t *testing.T) {
	f := newFixture(t)
	f.postSale(t, march())
	f.postSale(t, time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC))
	f.post(t, "BQ", march(), ledgerdomain.StatusValidated,
		draftLine{code: "521000", debit: 1392},
		draftLine{code: "411000", credit: 1392},
	)

	all, err := f.svc.AuxiliaryJournal(context.Background(), f.tc, "VT", f.yearID, 0, statementdomain.Options{})
	require.NoError(t, err)
	assert.Len(t, all.Movements, 6)
	assert.Equal(t, "2784.00", all.TotalDebit.StringFixed(2))
	assert.Equal(t, "2784.00", all.TotalCredit.StringFixed(2))

	marchOnly, err := f.svc.AuxiliaryJournal(context.Background(), f.tc, "VT", f.yearID, 3, statementdomain.Options{})
	require.NoError(t, err)
	assert.Len(t, marchOnly.Movements, 3)
	assert.Equal(t, 3, marchOnly.Month)
}

func TestAuxiliaryJournalUnknownCode(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AuxiliaryJournal(context.Background(), f.tc, "XX", f.yearID, 0, statementdomain.Options{})
	assert.ErrorIs(t, err, journaldomain.ErrJournalNotFound)
}
