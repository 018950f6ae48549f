package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	auditdomain "github.com/zinari/zinari/internal/audit/domain"
	auditservice "github.com/zinari/zinari/internal/audit/service"
	"github.com/zinari/zinari/internal/clock"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	svc       ledgerdomain.Service
	db        *gorm.DB
	clock     *clock.FakeClock
	tc        tenant.Context
	journalID snowflake.ID
	yearID    snowflake.ID
	closedID  snowflake.ID
	accounts  map[string]snowflake.ID
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
	fc := clock.NewFakeClock(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))
	log := zaptest.NewLogger(t)

	f := &fixture{
		db:       db,
		clock:    fc,
		accounts: map[string]snowflake.ID{},
	}

	companyID := node.Generate()
	f.tc = tenant.Context{CompanyID: companyID}
	require.NoError(t, db.Create(&companydomain.Company{
		ID: companyID, Name: "Testco", Currency: "XOF", CreatedAt: fc.Now(), UpdatedAt: fc.Now(),
	}).Error)

	for _, code := range []string{"411000", "443000", "521000", "701000"} {
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

	f.journalID = node.Generate()
	require.NoError(t, db.Create(&journaldomain.Journal{
		ID: f.journalID, CompanyID: companyID, Code: "VT", Label: "Ventes",
		Type: journaldomain.JournalSale, CreatedAt: fc.Now(),
	}).Error)

	f.yearID = node.Generate()
	require.NoError(t, db.Create(&journaldomain.FiscalYear{
		ID: f.yearID, CompanyID: companyID, Label: "2026",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt: fc.Now(),
	}).Error)

	closedAt := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	f.closedID = node.Generate()
	require.NoError(t, db.Create(&journaldomain.FiscalYear{
		ID: f.closedID, CompanyID: companyID, Label: "2025",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Closed:    true, ClosedAt: &closedAt, CreatedAt: fc.Now(),
	}).Error)

	auditSvc := auditservice.NewService(auditservice.Params{
		DB: db, Log: log, GenID: node, Clock: fc,
	})
	f.svc = NewService(Params{
		DB: db, Log: log, GenID: node, Clock: fc, AuditSvc: auditSvc,
	})
	return f
}

func (f *fixture) saleDraft(net, vat int64) ledgerdomain.EntryDraft {
	gross := net + vat
	lines := []ledgerdomain.LineDraft{
		{AccountID: f.accounts["411000"], Debit: decimal.NewFromInt(gross)},
		{AccountID: f.accounts["701000"], Credit: decimal.NewFromInt(net)},
	}
	if vat > 0 {
		lines = append(lines, ledgerdomain.LineDraft{AccountID: f.accounts["443000"], Credit: decimal.NewFromInt(vat)})
	}
	return ledgerdomain.EntryDraft{
		JournalID:   f.journalID,
		EntryDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: "Vente de marchandises",
		Currency:    "XOF",
		Lines:       lines,
	}
}

func TestCreateGeneratesSequentialReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, want := range []string{"VT-2026-0001", "VT-2026-0002", "VT-2026-0003"} {
		res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1000+int64(i), 0))
		require.NoError(t, err)
		assert.Equal(t, want, res.Entry.Reference)
		assert.Equal(t, ledgerdomain.StatusProvisional, res.Entry.Status)
	}
}

func TestCreateKeepsExplicitReference(t *testing.T) {
	f := newFixture(t)
	draft := f.saleDraft(500, 0)
	draft.Reference = "FAC-001"

	res, err := f.svc.Create(context.Background(), f.tc, draft)
	require.NoError(t, err)
	assert.Equal(t, "FAC-001", res.Entry.Reference)
}

func TestCreateValidatedRequiresBalance(t *testing.T) {
	f := newFixture(t)

	draft := ledgerdomain.EntryDraft{
		JournalID: f.journalID,
		EntryDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Currency:  "XOF",
		Status:    ledgerdomain.StatusValidated,
		Lines: []ledgerdomain.LineDraft{
			{AccountID: f.accounts["411000"], Debit: decimal.NewFromInt(1000)},
			{AccountID: f.accounts["701000"], Credit: decimal.NewFromInt(900)},
		},
	}
	_, err := f.svc.Create(context.Background(), f.tc, draft)

	var unbalanced *ledgerdomain.UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	assert.Equal(t, "1000.00", unbalanced.Debit.StringFixed(2))
	assert.Equal(t, "900.00", unbalanced.Credit.StringFixed(2))
}

func TestCreateProvisionalAllowsImbalance(t *testing.T) {
	f := newFixture(t)

	draft := ledgerdomain.EntryDraft{
		JournalID: f.journalID,
		EntryDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Currency:  "XOF",
		Lines: []ledgerdomain.LineDraft{
			{AccountID: f.accounts["411000"], Debit: decimal.NewFromInt(1000)},
			{AccountID: f.accounts["701000"], Credit: decimal.NewFromInt(900)},
		},
	}
	res, err := f.svc.Create(context.Background(), f.tc, draft)
	require.NoError(t, err)
	assert.Equal(t, ledgerdomain.StatusProvisional, res.Entry.Status)
}

func TestCreateRejectsClosedYear(t *testing.T) {
	f := newFixture(t)

	draft := f.saleDraft(1000, 0)
	draft.FiscalYearID = f.closedID
	draft.EntryDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Create(context.Background(), f.tc, draft)
	assert.ErrorIs(t, err, ledgerdomain.ErrClosedPeriod)
}

func TestCreateRejectsInvalidTenant(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), tenant.Context{}, f.saleDraft(1000, 0))
	assert.ErrorIs(t, err, companydomain.ErrInvalidCompany)
}

func TestCreateComputesLocalAmounts(t *testing.T) {
	f := newFixture(t)

	draft := f.saleDraft(1000, 0)
	draft.Currency = "EUR"
	draft.ExchangeRate = decimal.RequireFromString("655.957")

	res, err := f.svc.Create(context.Background(), f.tc, draft)
	require.NoError(t, err)
	require.Len(t, res.Entry.Lines, 2)
	assert.Equal(t, "655957.00", res.Entry.Lines[0].DebitLocal.StringFixed(2))
	assert.Equal(t, "655957.00", res.Entry.Lines[1].CreditLocal.StringFixed(2))
}

func TestCreateWarnsOnMissingVat(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Create(context.Background(), f.tc, f.saleDraft(1200, 0))
	require.NoError(t, err)
	// The sale pattern itself already carries a combination warning (411 vs 701).
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "443")

	res, err = f.svc.Create(context.Background(), f.tc, f.saleDraft(1200, 192))
	require.NoError(t, err)
	assert.NotContains(t, strings.Join(res.Warnings, "\n"), "without collected VAT")
}

func TestValidateIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1200, 192))
	require.NoError(t, err)

	entry, err := f.svc.Validate(ctx, f.tc, res.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, ledgerdomain.StatusValidated, entry.Status)
	require.NotNil(t, entry.ValidatedAt)
	assert.Equal(t, f.clock.Now(), entry.ValidatedAt.UTC())

	_, err = f.svc.Validate(ctx, f.tc, res.Entry.ID)
	assert.ErrorIs(t, err, ledgerdomain.ErrInvalidEntryStatus)
}

func TestValidateRejectsUnbalanced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, ledgerdomain.EntryDraft{
		JournalID: f.journalID,
		EntryDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Currency:  "XOF",
		Lines: []ledgerdomain.LineDraft{
			{AccountID: f.accounts["411000"], Debit: decimal.NewFromInt(1000)},
			{AccountID: f.accounts["701000"], Credit: decimal.NewFromInt(900)},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.Validate(ctx, f.tc, res.Entry.ID)
	assert.True(t, ledgerdomain.IsUnbalanced(err))
}

func TestUpdateValidatedEntryFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1200, 192))
	require.NoError(t, err)
	_, err = f.svc.Validate(ctx, f.tc, res.Entry.ID)
	require.NoError(t, err)

	desc := "tentative de modification"
	_, err = f.svc.Update(ctx, f.tc, res.Entry.ID, ledgerdomain.EntryPatch{Description: &desc})
	assert.ErrorIs(t, err, ledgerdomain.ErrValidatedImmutable)
}

func TestUpdateReplacesLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1000, 0))
	require.NoError(t, err)

	entry, err := f.svc.Update(ctx, f.tc, res.Entry.ID, ledgerdomain.EntryPatch{
		Lines: []ledgerdomain.LineDraft{
			{AccountID: f.accounts["411000"], Debit: decimal.NewFromInt(2400)},
			{AccountID: f.accounts["701000"], Credit: decimal.NewFromInt(2000)},
			{AccountID: f.accounts["443000"], Credit: decimal.NewFromInt(400)},
		},
	})
	require.NoError(t, err)
	require.Len(t, entry.Lines, 3)
	assert.Equal(t, "2400.00", entry.Lines[0].Debit.StringFixed(2))
}

func TestUpdateRateReconvertsLocalAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1000, 0))
	require.NoError(t, err)
	require.Equal(t, "1000.00", res.Entry.Lines[0].DebitLocal.StringFixed(2))

	rate := decimal.NewFromInt(2)
	entry, err := f.svc.Update(ctx, f.tc, res.Entry.ID, ledgerdomain.EntryPatch{ExchangeRate: &rate})
	require.NoError(t, err)

	// Transaction amounts stay as entered, only the converted side moves.
	assert.Equal(t, "1000.00", entry.Lines[0].Debit.StringFixed(2))
	assert.Equal(t, "2000.00", entry.Lines[0].DebitLocal.StringFixed(2))
	assert.Equal(t, "2000.00", entry.Lines[1].CreditLocal.StringFixed(2))
}

func TestSoftDeleteRestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1200, 192))
	require.NoError(t, err)

	require.NoError(t, f.svc.SoftDelete(ctx, f.tc, res.Entry.ID))

	_, err = f.svc.Get(ctx, f.tc, res.Entry.ID)
	require.NoError(t, err) // Get does not hide trashed entries

	listed, err := f.svc.List(ctx, f.tc, ledgerdomain.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, listed)

	trashed, err := f.svc.List(ctx, f.tc, ledgerdomain.ListFilter{Trashed: true})
	require.NoError(t, err)
	require.Len(t, trashed, 1)

	restored, err := f.svc.Restore(ctx, f.tc, res.Entry.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, res.Entry.Reference, restored.Reference)
	assert.Len(t, restored.Lines, 3)
}

func TestSoftDeleteValidatedEntryFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1200, 192))
	require.NoError(t, err)
	_, err = f.svc.Validate(ctx, f.tc, res.Entry.ID)
	require.NoError(t, err)

	err = f.svc.SoftDelete(ctx, f.tc, res.Entry.ID)
	assert.ErrorIs(t, err, ledgerdomain.ErrValidatedImmutable)
}

func TestRestoreNonTrashedEntryFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1200, 192))
	require.NoError(t, err)

	_, err = f.svc.Restore(ctx, f.tc, res.Entry.ID)
	assert.ErrorIs(t, err, ledgerdomain.ErrEntryNotFound)
}

func TestPurgeRemovesEntryAndLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.tc, f.saleDraft(1200, 192))
	require.NoError(t, err)

	require.NoError(t, f.svc.Purge(ctx, f.tc, res.Entry.ID))

	_, err = f.svc.Get(ctx, f.tc, res.Entry.ID)
	assert.ErrorIs(t, err, ledgerdomain.ErrEntryNotFound)

	var count int64
	require.NoError(t, f.db.Model(&ledgerdomain.EntryLine{}).Where("entry_id = ?", res.Entry.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateRejectsUnknownAccount(t *testing.T) {
	f := newFixture(t)

	draft := f.saleDraft(1000, 0)
	draft.Lines[0].AccountID = snowflake.ID(999)

	_, err := f.svc.Create(context.Background(), f.tc, draft)
	assert.ErrorIs(t, err, accountdomain.ErrNotFound)
}

func TestCreateResolvesFiscalYearFromDate(t *testing.T) {
	f := newFixture(t)

	draft := f.saleDraft(1000, 0)
	draft.FiscalYearID = 0

	res, err := f.svc.Create(context.Background(), f.tc, draft)
	require.NoError(t, err)
	assert.Equal(t, f.yearID, res.Entry.FiscalYearID)

	draft.EntryDate = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.svc.Create(context.Background(), f.tc, draft)
	assert.True(t, errors.Is(err, ledgerdomain.ErrInvalidFiscalYear))
}
