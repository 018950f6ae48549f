package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	auditdomain "github.com/zinari/zinari/internal/audit/domain"
	"github.com/zinari/zinari/internal/clock"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	"github.com/zinari/zinari/internal/ledger/ohada"
	"github.com/zinari/zinari/internal/ledger/refgen"
	obsmetrics "github.com/zinari/zinari/internal/observability/metrics"
	dbpkg "github.com/zinari/zinari/pkg/db"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// referenceRetries bounds the regenerate-and-retry loop on duplicate
// auto-generated references under concurrent creation.
const referenceRetries = 3

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	AuditSvc   auditdomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	auditSvc   auditdomain.Service
	obsMetrics *obsmetrics.Metrics
	refgen     *refgen.Generator
}

func NewService(p Params) ledgerdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("ledger.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		auditSvc:   p.AuditSvc,
		obsMetrics: p.ObsMetrics,
		refgen:     refgen.New(p.DB),
	}
}

func (s *Service) Create(ctx context.Context, tc tenant.Context, draft ledgerdomain.EntryDraft) (*ledgerdomain.CreateResult, error) {
	if !tc.Valid() {
		return nil, companydomain.ErrInvalidCompany
	}
	if draft.EntryDate.IsZero() {
		return nil, ledgerdomain.ErrInvalidEntryDate
	}
	currency := strings.ToUpper(strings.TrimSpace(draft.Currency))
	if currency == "" {
		return nil, ledgerdomain.ErrInvalidCurrency
	}
	if len(draft.Lines) < 2 {
		return nil, ledgerdomain.ErrInvalidLines
	}

	status := draft.Status
	if status == "" {
		status = ledgerdomain.StatusProvisional
	}
	if status != ledgerdomain.StatusProvisional && status != ledgerdomain.StatusValidated {
		return nil, ledgerdomain.ErrInvalidEntryStatus
	}

	rate := draft.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	journal, err := s.loadJournal(ctx, tc, draft.JournalID)
	if err != nil {
		return nil, err
	}

	fiscalYear, err := s.resolveFiscalYear(ctx, tc, draft.FiscalYearID, draft.EntryDate)
	if err != nil {
		return nil, err
	}
	if fiscalYear.Closed {
		return nil, ledgerdomain.ErrClosedPeriod
	}

	// Entries created directly as VALIDATED must balance up front.
	if status == ledgerdomain.StatusValidated {
		if err := ledgerdomain.CheckBalanced(draft.Lines); err != nil {
			return nil, err
		}
	}

	codes, err := s.loadAccountCodes(ctx, tc, draft.Lines)
	if err != nil {
		return nil, err
	}

	checkLines := make([]ohada.Line, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		checkLines = append(checkLines, ohada.Line{
			AccountCode: codes[line.AccountID],
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}
	verdict := ohada.ValidateEntry(fiscalYear, draft.EntryDate, checkLines)
	if !verdict.Valid {
		return nil, &ledgerdomain.ValidationFailedError{Reasons: verdict.Errors}
	}

	sourceType := draft.SourceType
	if sourceType == "" {
		sourceType = ledgerdomain.SourceManual
	}

	year := fiscalYear.StartDate.Year()
	reference := strings.TrimSpace(draft.Reference)
	autoRef := reference == ""

	now := s.clock.Now()
	entry := &ledgerdomain.Entry{
		ID:           s.genID.Generate(),
		CompanyID:    tc.CompanyID,
		JournalID:    journal.ID,
		FiscalYearID: fiscalYear.ID,
		EntryDate:    draft.EntryDate.UTC(),
		Description:  strings.TrimSpace(draft.Description),
		Currency:     currency,
		ExchangeRate: rate,
		Status:       status,
		SourceType:   sourceType,
		SourceID:     draft.SourceID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == ledgerdomain.StatusValidated {
		validatedAt := now
		entry.ValidatedAt = &validatedAt
	}

	for attempt := 0; ; attempt++ {
		if autoRef {
			reference, err = s.refgen.Next(ctx, tc, journal.ID, year)
			if err != nil {
				return nil, err
			}
		}
		entry.Reference = reference

		err = s.persistEntry(ctx, entry, draft.Lines, rate, now)
		if err == nil {
			break
		}
		if autoRef && dbpkg.IsDuplicateKeyErr(err) && attempt < referenceRetries {
			continue
		}
		return nil, err
	}

	_ = s.auditSvc.Record(ctx, tc, "ledger.entry_created", "entry", entry.ID.String(), map[string]any{
		"reference":   entry.Reference,
		"journal_id":  entry.JournalID.String(),
		"status":      string(entry.Status),
		"source_type": string(entry.SourceType),
	})
	s.obsMetrics.RecordEntryCreated(ctx, string(sourceType))

	s.log.Info("entry created",
		zap.String("company_id", tc.CompanyID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("reference", entry.Reference),
		zap.String("status", string(entry.Status)),
	)

	created, err := s.Get(ctx, tc, entry.ID)
	if err != nil {
		return nil, err
	}
	return &ledgerdomain.CreateResult{Entry: created, Warnings: verdict.Warnings}, nil
}

func (s *Service) persistEntry(ctx context.Context, entry *ledgerdomain.Entry, lines []ledgerdomain.LineDraft, rate decimal.Decimal, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO entries (
				id, company_id, journal_id, fiscal_year_id, reference, entry_date, description,
				currency, exchange_rate, status, source_type, source_id, validated_at, deleted_at,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID,
			entry.CompanyID,
			entry.JournalID,
			entry.FiscalYearID,
			entry.Reference,
			entry.EntryDate,
			entry.Description,
			entry.Currency,
			entry.ExchangeRate,
			entry.Status,
			entry.SourceType,
			entry.SourceID,
			entry.ValidatedAt,
			entry.DeletedAt,
			entry.CreatedAt,
			entry.UpdatedAt,
		).Error; err != nil {
			return err
		}

		return s.insertLines(tx, entry.ID, lines, rate, now)
	})
}

func (s *Service) insertLines(tx *gorm.DB, entryID snowflake.ID, lines []ledgerdomain.LineDraft, rate decimal.Decimal, now time.Time) error {
	for _, line := range lines {
		if err := tx.Exec(
			`INSERT INTO entry_lines (
				id, entry_id, account_id, third_party_id, cost_center_id, label,
				debit, credit, debit_local, credit_local, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.genID.Generate(),
			entryID,
			line.AccountID,
			line.ThirdPartyID,
			line.CostCenterID,
			line.Label,
			line.Debit,
			line.Credit,
			line.Debit.Mul(rate).Round(2),
			line.Credit.Mul(rate).Round(2),
			now,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// reconvertLinesTx refreshes the stored local amounts of an entry's lines
// after its exchange rate changed.
func reconvertLinesTx(tx *gorm.DB, entryID snowflake.ID, rate decimal.Decimal) error {
	var lines []ledgerdomain.EntryLine
	if err := tx.Where("entry_id = ?", entryID).Find(&lines).Error; err != nil {
		return err
	}
	for _, line := range lines {
		if err := tx.Exec(
			`UPDATE entry_lines SET debit_local = ?, credit_local = ? WHERE id = ?`,
			line.Debit.Mul(rate).Round(2),
			line.Credit.Mul(rate).Round(2),
			line.ID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Update(ctx context.Context, tc tenant.Context, id snowflake.ID, patch ledgerdomain.EntryPatch) (*ledgerdomain.Entry, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntryTx(tx, tc, id, false)
		if err != nil {
			return err
		}
		if entry == nil {
			return ledgerdomain.ErrEntryNotFound
		}
		// Status re-read inside the transaction so a concurrent validation
		// cannot slip a mutation through.
		if entry.Status == ledgerdomain.StatusValidated {
			return ledgerdomain.ErrValidatedImmutable
		}

		if patch.JournalID != nil {
			journal, err := loadJournalTx(tx, tc, *patch.JournalID)
			if err != nil {
				return err
			}
			entry.JournalID = journal.ID
		}
		if patch.EntryDate != nil {
			entry.EntryDate = patch.EntryDate.UTC()
		}

		targetYearID := entry.FiscalYearID
		if patch.FiscalYearID != nil {
			targetYearID = *patch.FiscalYearID
		}
		fiscalYear, err := loadFiscalYearTx(tx, tc, targetYearID)
		if err != nil {
			return err
		}
		if fiscalYear == nil {
			return ledgerdomain.ErrInvalidFiscalYear
		}
		if fiscalYear.Closed {
			return ledgerdomain.ErrClosedPeriod
		}
		entry.FiscalYearID = fiscalYear.ID

		if patch.Description != nil {
			entry.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Currency != nil {
			currency := strings.ToUpper(strings.TrimSpace(*patch.Currency))
			if currency == "" {
				return ledgerdomain.ErrInvalidCurrency
			}
			entry.Currency = currency
		}
		rateChanged := false
		if patch.ExchangeRate != nil && !patch.ExchangeRate.IsZero() {
			rateChanged = !patch.ExchangeRate.Equal(entry.ExchangeRate)
			entry.ExchangeRate = *patch.ExchangeRate
		}
		now := s.clock.Now()
		entry.UpdatedAt = now

		if err := tx.Exec(
			`UPDATE entries
			 SET journal_id = ?, fiscal_year_id = ?, entry_date = ?, description = ?,
			     currency = ?, exchange_rate = ?, updated_at = ?
			 WHERE company_id = ? AND id = ?`,
			entry.JournalID,
			entry.FiscalYearID,
			entry.EntryDate,
			entry.Description,
			entry.Currency,
			entry.ExchangeRate,
			entry.UpdatedAt,
			tc.CompanyID,
			entry.ID,
		).Error; err != nil {
			return err
		}

		if patch.Lines != nil {
			if len(patch.Lines) < 2 {
				return ledgerdomain.ErrInvalidLines
			}
			if err := tx.Exec(`DELETE FROM entry_lines WHERE entry_id = ?`, entry.ID).Error; err != nil {
				return err
			}
			if err := s.insertLines(tx, entry.ID, patch.Lines, entry.ExchangeRate, now); err != nil {
				return err
			}
		} else if rateChanged {
			// Kept lines still carry local amounts converted under the old
			// rate. Redo the conversion so debit_local stays debit * rate.
			if err := reconvertLinesTx(tx, entry.ID, entry.ExchangeRate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.auditSvc.Record(ctx, tc, "ledger.entry_updated", "entry", id.String(), nil)
	return s.Get(ctx, tc, id)
}

// Validate transitions PROVISIONAL to VALIDATED. The transition is terminal.
func (s *Service) Validate(ctx context.Context, tc tenant.Context, id snowflake.ID) (*ledgerdomain.Entry, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntryTx(tx, tc, id, false)
		if err != nil {
			return err
		}
		if entry == nil {
			return ledgerdomain.ErrEntryNotFound
		}
		if entry.Status != ledgerdomain.StatusProvisional {
			return ledgerdomain.ErrInvalidEntryStatus
		}

		fiscalYear, err := loadFiscalYearTx(tx, tc, entry.FiscalYearID)
		if err != nil {
			return err
		}
		if fiscalYear == nil {
			return ledgerdomain.ErrInvalidFiscalYear
		}
		// Re-checked at write time: the year may have closed since creation.
		if fiscalYear.Closed {
			return ledgerdomain.ErrClosedPeriod
		}

		var lines []ledgerdomain.EntryLine
		if err := tx.Where("entry_id = ?", entry.ID).Find(&lines).Error; err != nil {
			return err
		}
		drafts := make([]ledgerdomain.LineDraft, 0, len(lines))
		for _, line := range lines {
			drafts = append(drafts, ledgerdomain.LineDraft{Debit: line.Debit, Credit: line.Credit})
		}
		if err := ledgerdomain.CheckBalanced(drafts); err != nil {
			return err
		}

		now := s.clock.Now()
		return tx.Exec(
			`UPDATE entries SET status = ?, validated_at = ?, updated_at = ?
			 WHERE company_id = ? AND id = ? AND status = ?`,
			ledgerdomain.StatusValidated,
			now,
			now,
			tc.CompanyID,
			entry.ID,
			ledgerdomain.StatusProvisional,
		).Error
	})
	if err != nil {
		return nil, err
	}

	_ = s.auditSvc.Record(ctx, tc, "ledger.entry_validated", "entry", id.String(), nil)
	s.obsMetrics.RecordEntryValidated(ctx)
	return s.Get(ctx, tc, id)
}

func (s *Service) SoftDelete(ctx context.Context, tc tenant.Context, id snowflake.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntryTx(tx, tc, id, false)
		if err != nil {
			return err
		}
		if entry == nil {
			return ledgerdomain.ErrEntryNotFound
		}
		if entry.Status == ledgerdomain.StatusValidated {
			return ledgerdomain.ErrValidatedImmutable
		}

		fiscalYear, err := loadFiscalYearTx(tx, tc, entry.FiscalYearID)
		if err != nil {
			return err
		}
		if fiscalYear != nil && fiscalYear.Closed {
			return ledgerdomain.ErrClosedPeriod
		}

		now := s.clock.Now()
		return tx.Exec(
			`UPDATE entries SET deleted_at = ?, updated_at = ? WHERE company_id = ? AND id = ?`,
			now,
			now,
			tc.CompanyID,
			entry.ID,
		).Error
	})
	if err != nil {
		return err
	}

	_ = s.auditSvc.Record(ctx, tc, "ledger.entry_trashed", "entry", id.String(), nil)
	return nil
}

func (s *Service) Restore(ctx context.Context, tc tenant.Context, id snowflake.ID) (*ledgerdomain.Entry, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntryTx(tx, tc, id, true)
		if err != nil {
			return err
		}
		if entry == nil || !entry.Trashed() {
			return ledgerdomain.ErrEntryNotFound
		}

		return tx.Exec(
			`UPDATE entries SET deleted_at = NULL, updated_at = ? WHERE company_id = ? AND id = ?`,
			s.clock.Now(),
			tc.CompanyID,
			entry.ID,
		).Error
	})
	if err != nil {
		return nil, err
	}

	_ = s.auditSvc.Record(ctx, tc, "ledger.entry_restored", "entry", id.String(), nil)
	return s.Get(ctx, tc, id)
}

// Purge hard-deletes the entry and its lines, bypassing status checks. It is
// the administrative escape hatch and cannot be undone.
func (s *Service) Purge(ctx context.Context, tc tenant.Context, id snowflake.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := findEntryTx(tx, tc, id, true)
		if err != nil {
			return err
		}
		if entry == nil {
			return ledgerdomain.ErrEntryNotFound
		}

		if err := tx.Exec(`DELETE FROM entry_lines WHERE entry_id = ?`, entry.ID).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM entries WHERE company_id = ? AND id = ?`, tc.CompanyID, entry.ID).Error
	})
	if err != nil {
		return err
	}

	_ = s.auditSvc.Record(ctx, tc, "ledger.entry_purged", "entry", id.String(), nil)
	return nil
}

func (s *Service) Get(ctx context.Context, tc tenant.Context, id snowflake.ID) (*ledgerdomain.Entry, error) {
	var entry ledgerdomain.Entry
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, ledgerdomain.ErrEntryNotFound
	}

	if err := s.db.WithContext(ctx).
		Where("entry_id = ?", entry.ID).
		Order("id ASC").
		Find(&entry.Lines).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Service) List(ctx context.Context, tc tenant.Context, filter ledgerdomain.ListFilter) ([]ledgerdomain.Entry, error) {
	stmt := s.db.WithContext(ctx).
		Model(&ledgerdomain.Entry{}).
		Where("company_id = ?", tc.CompanyID)

	if filter.Trashed {
		stmt = stmt.Where("deleted_at IS NOT NULL")
	} else {
		stmt = stmt.Where("deleted_at IS NULL")
	}
	if filter.JournalID != 0 {
		stmt = stmt.Where("journal_id = ?", filter.JournalID)
	}
	if filter.FiscalYearID != 0 {
		stmt = stmt.Where("fiscal_year_id = ?", filter.FiscalYearID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var entries []ledgerdomain.Entry
	if err := stmt.Order("entry_date ASC, reference ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) loadJournal(ctx context.Context, tc tenant.Context, id snowflake.ID) (*journaldomain.Journal, error) {
	return loadJournalTx(s.db.WithContext(ctx), tc, id)
}

func loadJournalTx(tx *gorm.DB, tc tenant.Context, id snowflake.ID) (*journaldomain.Journal, error) {
	var journal journaldomain.Journal
	err := tx.Where("company_id = ? AND id = ?", tc.CompanyID, id).Limit(1).Find(&journal).Error
	if err != nil {
		return nil, err
	}
	if journal.ID == 0 {
		return nil, journaldomain.ErrJournalNotFound
	}
	return &journal, nil
}

func loadFiscalYearTx(tx *gorm.DB, tc tenant.Context, id snowflake.ID) (*journaldomain.FiscalYear, error) {
	var fy journaldomain.FiscalYear
	err := tx.Where("company_id = ? AND id = ?", tc.CompanyID, id).Limit(1).Find(&fy).Error
	if err != nil {
		return nil, err
	}
	if fy.ID == 0 {
		return nil, nil
	}
	return &fy, nil
}

func (s *Service) resolveFiscalYear(ctx context.Context, tc tenant.Context, id snowflake.ID, entryDate time.Time) (*journaldomain.FiscalYear, error) {
	if id != 0 {
		fy, err := loadFiscalYearTx(s.db.WithContext(ctx), tc, id)
		if err != nil {
			return nil, err
		}
		if fy == nil {
			return nil, ledgerdomain.ErrInvalidFiscalYear
		}
		return fy, nil
	}

	var fy journaldomain.FiscalYear
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND start_date <= ? AND end_date >= ?", tc.CompanyID, entryDate, entryDate).
		Order("start_date DESC").
		Limit(1).
		Find(&fy).Error
	if err != nil {
		return nil, err
	}
	if fy.ID == 0 {
		return nil, ledgerdomain.ErrInvalidFiscalYear
	}
	return &fy, nil
}

func (s *Service) loadAccountCodes(ctx context.Context, tc tenant.Context, lines []ledgerdomain.LineDraft) (map[snowflake.ID]string, error) {
	ids := make([]snowflake.ID, 0, len(lines))
	seen := make(map[snowflake.ID]bool, len(lines))
	for _, line := range lines {
		if line.AccountID == 0 {
			return nil, accountdomain.ErrNotFound
		}
		if !seen[line.AccountID] {
			seen[line.AccountID] = true
			ids = append(ids, line.AccountID)
		}
	}

	var accounts []accountdomain.Account
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND id IN ?", tc.CompanyID, ids).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(ids) {
		return nil, accountdomain.ErrNotFound
	}

	codes := make(map[snowflake.ID]string, len(accounts))
	for _, account := range accounts {
		codes[account.ID] = account.Code
	}
	return codes, nil
}

// findEntryTx loads an entry header inside tx. Soft-deleted entries are only
// visible when includeTrashed is set.
func findEntryTx(tx *gorm.DB, tc tenant.Context, id snowflake.ID, includeTrashed bool) (*ledgerdomain.Entry, error) {
	stmt := tx.Where("company_id = ? AND id = ?", tc.CompanyID, id)
	if !includeTrashed {
		stmt = stmt.Where("deleted_at IS NULL")
	}

	var entry ledgerdomain.Entry
	if err := stmt.Limit(1).Find(&entry).Error; err != nil {
		return nil, err
	}
	if entry.ID == 0 {
		return nil, nil
	}
	return &entry, nil
}
