package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of an accounting entry. VALIDATED is
// terminal and immutable.
type EntryStatus string

const (
	StatusProvisional EntryStatus = "PROVISIONAL"
	StatusValidated   EntryStatus = "VALIDATED"
)

// SourceType records which business document produced an entry.
type SourceType string

const (
	SourceManual        SourceType = "manual"
	SourceInvoice       SourceType = "invoice"
	SourcePayment       SourceType = "payment"
	SourcePurchase      SourceType = "purchase"
	SourcePayroll       SourceType = "payroll"
	SourceSalaryPayment SourceType = "salary_payment"
)

// Entry is the header of a double-entry ledger transaction.
type Entry struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID    `gorm:"not null;index" json:"company_id"`
	JournalID    snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_entries_journal_year_ref,priority:1" json:"journal_id"`
	FiscalYearID snowflake.ID    `gorm:"not null;index;uniqueIndex:ux_entries_journal_year_ref,priority:2" json:"fiscal_year_id"`
	Reference    string          `gorm:"type:text;not null;uniqueIndex:ux_entries_journal_year_ref,priority:3" json:"reference"`
	EntryDate    time.Time       `gorm:"not null;index" json:"entry_date"`
	Description  string          `gorm:"type:text" json:"description"`
	Currency     string          `gorm:"type:char(3);not null" json:"currency"`
	ExchangeRate decimal.Decimal `gorm:"type:numeric(18,6);not null;default:1" json:"exchange_rate"`
	Status       EntryStatus     `gorm:"type:text;not null;index" json:"status"`
	SourceType   SourceType      `gorm:"type:text;not null;default:'manual'" json:"source_type"`
	SourceID     snowflake.ID    `gorm:"index" json:"source_id,omitempty"`
	ValidatedAt  *time.Time      `json:"validated_at,omitempty"`
	DeletedAt    *time.Time      `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lines []EntryLine `gorm:"foreignKey:EntryID" json:"lines,omitempty"`
}

func (Entry) TableName() string { return "entries" }

// Trashed reports whether the entry is currently soft-deleted.
func (e Entry) Trashed() bool { return e.DeletedAt != nil }

// EntryLine is one debit-or-credit movement against one account. Amounts are
// carried both in transaction currency and in local currency (amount times the
// entry's exchange rate).
type EntryLine struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	EntryID      snowflake.ID    `gorm:"not null;index" json:"entry_id"`
	AccountID    snowflake.ID    `gorm:"not null;index" json:"account_id"`
	ThirdPartyID *snowflake.ID   `gorm:"index" json:"third_party_id,omitempty"`
	CostCenterID *snowflake.ID   `gorm:"index" json:"cost_center_id,omitempty"`
	Label        string          `gorm:"type:text" json:"label"`
	Debit        decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"debit"`
	Credit       decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"credit"`
	DebitLocal   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"debit_local"`
	CreditLocal  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"credit_local"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (EntryLine) TableName() string { return "entry_lines" }
