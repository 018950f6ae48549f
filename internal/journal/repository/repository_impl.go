package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	"github.com/zinari/zinari/pkg/tenant"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) journaldomain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateJournal(ctx context.Context, journal *journaldomain.Journal) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO journals (id, company_id, branch_id, code, label, type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		journal.ID,
		journal.CompanyID,
		journal.BranchID,
		journal.Code,
		journal.Label,
		journal.Type,
		journal.CreatedAt,
	).Error
}

func (r *repository) FindJournalByID(ctx context.Context, tc tenant.Context, id snowflake.ID) (*journaldomain.Journal, error) {
	var journal journaldomain.Journal
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&journal).Error
	if err != nil {
		return nil, err
	}
	if journal.ID == 0 {
		return nil, nil
	}
	return &journal, nil
}

func (r *repository) FindJournalByCode(ctx context.Context, tc tenant.Context, code string) (*journaldomain.Journal, error) {
	var journal journaldomain.Journal
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND code = ?", tc.CompanyID, code).
		Limit(1).
		Find(&journal).Error
	if err != nil {
		return nil, err
	}
	if journal.ID == 0 {
		return nil, nil
	}
	return &journal, nil
}

func (r *repository) FindJournalByType(ctx context.Context, tc tenant.Context, jt journaldomain.JournalType) (*journaldomain.Journal, error) {
	var journal journaldomain.Journal
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND type = ?", tc.CompanyID, jt).
		Order("code ASC").
		Limit(1).
		Find(&journal).Error
	if err != nil {
		return nil, err
	}
	if journal.ID == 0 {
		return nil, nil
	}
	return &journal, nil
}

func (r *repository) ListJournals(ctx context.Context, tc tenant.Context) ([]journaldomain.Journal, error) {
	var journals []journaldomain.Journal
	err := r.db.WithContext(ctx).
		Model(&journaldomain.Journal{}).
		Where("company_id = ?", tc.CompanyID).
		Order("code ASC").
		Find(&journals).Error
	if err != nil {
		return nil, err
	}
	return journals, nil
}

func (r *repository) CreateFiscalYear(ctx context.Context, fy *journaldomain.FiscalYear) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO fiscal_years (id, company_id, label, start_date, end_date, closed, closed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fy.ID,
		fy.CompanyID,
		fy.Label,
		fy.StartDate,
		fy.EndDate,
		fy.Closed,
		fy.ClosedAt,
		fy.CreatedAt,
	).Error
}

func (r *repository) FindFiscalYearByID(ctx context.Context, tc tenant.Context, id snowflake.ID) (*journaldomain.FiscalYear, error) {
	var fy journaldomain.FiscalYear
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&fy).Error
	if err != nil {
		return nil, err
	}
	if fy.ID == 0 {
		return nil, nil
	}
	return &fy, nil
}

func (r *repository) FindFiscalYearForDate(ctx context.Context, tc tenant.Context, date time.Time) (*journaldomain.FiscalYear, error) {
	var fy journaldomain.FiscalYear
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND start_date <= ? AND end_date >= ?", tc.CompanyID, date, date).
		Order("start_date DESC").
		Limit(1).
		Find(&fy).Error
	if err != nil {
		return nil, err
	}
	if fy.ID == 0 {
		return nil, nil
	}
	return &fy, nil
}

func (r *repository) ListFiscalYears(ctx context.Context, tc tenant.Context) ([]journaldomain.FiscalYear, error) {
	var years []journaldomain.FiscalYear
	err := r.db.WithContext(ctx).
		Model(&journaldomain.FiscalYear{}).
		Where("company_id = ?", tc.CompanyID).
		Order("start_date DESC").
		Find(&years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}

func (r *repository) MarkClosed(ctx context.Context, tc tenant.Context, id snowflake.ID, closedAt time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE fiscal_years SET closed = ?, closed_at = ? WHERE company_id = ? AND id = ?`,
		true,
		closedAt,
		tc.CompanyID,
		id,
	).Error
}
