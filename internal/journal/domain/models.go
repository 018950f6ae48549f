package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// JournalType names a posting channel.
type JournalType string

const (
	JournalSale     JournalType = "SALE"
	JournalPurchase JournalType = "PURCHASE"
	JournalBank     JournalType = "BANK"
	JournalCash     JournalType = "CASH"
	JournalPayroll  JournalType = "PAYROLL"
	JournalStock    JournalType = "STOCK"
	JournalOD       JournalType = "OD"
)

// OpeningJournalCode is the conventional code of the opening-balance journal.
// Cash-flow and equity statements treat its movements as carried-over rather
// than period activity.
const OpeningJournalCode = "AN"

// Journal is a named posting channel scoped to a company (and optionally a
// branch).
type Journal struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_journals_company_code,priority:1" json:"company_id"`
	BranchID  snowflake.ID `gorm:"index" json:"branch_id,omitempty"`
	Code      string       `gorm:"type:text;not null;uniqueIndex:ux_journals_company_code,priority:2" json:"code"`
	Label     string       `gorm:"type:text;not null" json:"label"`
	Type      JournalType  `gorm:"type:text;not null" json:"type"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Journal) TableName() string { return "journals" }

// FiscalYear is a date-bounded accounting period. Closing is one-way; closed
// years refuse all entry mutation.
type FiscalYear struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Label     string       `gorm:"type:text;not null" json:"label"`
	StartDate time.Time    `gorm:"not null" json:"start_date"`
	EndDate   time.Time    `gorm:"not null" json:"end_date"`
	Closed    bool         `gorm:"not null;default:false" json:"closed"`
	ClosedAt  *time.Time   `json:"closed_at,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (FiscalYear) TableName() string { return "fiscal_years" }

// ContainsDate reports whether d falls inside [StartDate, EndDate],
// comparing dates only.
func (fy FiscalYear) ContainsDate(d time.Time) bool {
	day := truncateToDay(d)
	return !day.Before(truncateToDay(fy.StartDate)) && !day.After(truncateToDay(fy.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	ErrInvalidCode        = errors.New("invalid_journal_code")
	ErrInvalidType        = errors.New("invalid_journal_type")
	ErrCodeExists         = errors.New("journal_code_exists")
	ErrJournalNotFound    = errors.New("journal_not_found")
	ErrInvalidPeriod      = errors.New("invalid_fiscal_period")
	ErrFiscalYearNotFound = errors.New("fiscal_year_not_found")
	ErrAlreadyClosed      = errors.New("fiscal_year_already_closed")
)
