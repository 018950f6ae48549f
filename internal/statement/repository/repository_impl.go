package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/zinari/zinari/pkg/tenant"
	"gorm.io/gorm"
)

// Row is one validated, non-deleted entry line joined with its entry,
// journal and account. Reports aggregate over these.
type Row struct {
	EntryID      snowflake.ID    `gorm:"column:entry_id"`
	Reference    string          `gorm:"column:reference"`
	EntryDate    time.Time       `gorm:"column:entry_date"`
	JournalID    snowflake.ID    `gorm:"column:journal_id"`
	JournalCode  string          `gorm:"column:journal_code"`
	LineID       snowflake.ID    `gorm:"column:line_id"`
	AccountID    snowflake.ID    `gorm:"column:account_id"`
	AccountCode  string          `gorm:"column:account_code"`
	AccountLabel string          `gorm:"column:account_label"`
	Label        string          `gorm:"column:label"`
	Debit        decimal.Decimal `gorm:"column:debit"`
	Credit       decimal.Decimal `gorm:"column:credit"`
	DebitLocal   decimal.Decimal `gorm:"column:debit_local"`
	CreditLocal  decimal.Decimal `gorm:"column:credit_local"`
}

// Repository reads the committed ledger state reports are computed from.
type Repository interface {
	ListRows(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID) ([]Row, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListRows(ctx context.Context, tc tenant.Context, fiscalYearID snowflake.ID) ([]Row, error) {
	var rows []Row
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			e.id          AS entry_id,
			e.reference   AS reference,
			e.entry_date  AS entry_date,
			e.journal_id  AS journal_id,
			j.code        AS journal_code,
			l.id          AS line_id,
			l.account_id  AS account_id,
			a.code        AS account_code,
			a.label       AS account_label,
			l.label       AS label,
			l.debit       AS debit,
			l.credit      AS credit,
			l.debit_local  AS debit_local,
			l.credit_local AS credit_local
		FROM entry_lines l
		JOIN entries e  ON e.id = l.entry_id
		JOIN journals j ON j.id = e.journal_id
		JOIN accounts a ON a.id = l.account_id
		WHERE e.company_id = ?
		  AND e.fiscal_year_id = ?
		  AND e.status = 'VALIDATED'
		  AND e.deleted_at IS NULL
		ORDER BY e.entry_date ASC, e.id ASC, l.id ASC
	`, tc.CompanyID, fiscalYearID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
