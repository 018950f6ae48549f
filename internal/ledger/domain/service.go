package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/zinari/zinari/pkg/tenant"
)

// LineDraft is one proposed movement of an entry being created or updated.
type LineDraft struct {
	AccountID    snowflake.ID    `json:"account_id"`
	ThirdPartyID *snowflake.ID   `json:"third_party_id,omitempty"`
	CostCenterID *snowflake.ID   `json:"cost_center_id,omitempty"`
	Label        string          `json:"label,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

// EntryDraft is the input of Create. FiscalYearID may be zero, in which case
// the year is resolved from EntryDate.
type EntryDraft struct {
	JournalID    snowflake.ID    `json:"journal_id"`
	FiscalYearID snowflake.ID    `json:"fiscal_year_id,omitempty"`
	Reference    string          `json:"reference,omitempty"`
	EntryDate    time.Time       `json:"entry_date"`
	Description  string          `json:"description,omitempty"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate,omitempty"`
	Status       EntryStatus     `json:"status,omitempty"`
	SourceType   SourceType      `json:"source_type,omitempty"`
	SourceID     snowflake.ID    `json:"source_id,omitempty"`
	Lines        []LineDraft     `json:"lines"`
}

// EntryPatch updates mutable fields of a PROVISIONAL entry. Nil fields keep
// their current value; non-nil Lines replace all lines.
type EntryPatch struct {
	EntryDate    *time.Time       `json:"entry_date,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Currency     *string          `json:"currency,omitempty"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	JournalID    *snowflake.ID    `json:"journal_id,omitempty"`
	FiscalYearID *snowflake.ID    `json:"fiscal_year_id,omitempty"`
	Lines        []LineDraft      `json:"lines,omitempty"`
}

// ListFilter narrows entry listings.
type ListFilter struct {
	JournalID    snowflake.ID
	FiscalYearID snowflake.ID
	Status       EntryStatus
	Trashed      bool
}

// CreateResult pairs the persisted entry with non-fatal validator warnings.
type CreateResult struct {
	Entry    *Entry   `json:"entry"`
	Warnings []string `json:"warnings,omitempty"`
}

type Service interface {
	Create(ctx context.Context, tc tenant.Context, draft EntryDraft) (*CreateResult, error)
	Update(ctx context.Context, tc tenant.Context, id snowflake.ID, patch EntryPatch) (*Entry, error)
	Validate(ctx context.Context, tc tenant.Context, id snowflake.ID) (*Entry, error)
	SoftDelete(ctx context.Context, tc tenant.Context, id snowflake.ID) error
	Restore(ctx context.Context, tc tenant.Context, id snowflake.ID) (*Entry, error)
	Purge(ctx context.Context, tc tenant.Context, id snowflake.ID) error
	Get(ctx context.Context, tc tenant.Context, id snowflake.ID) (*Entry, error)
	List(ctx context.Context, tc tenant.Context, filter ListFilter) ([]Entry, error)
}
