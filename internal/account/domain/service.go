package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/zinari/zinari/pkg/tenant"
)

type CreateAccountRequest struct {
	Code          string      `json:"code"`
	Label         string      `json:"label"`
	Type          AccountType `json:"type,omitempty"`
	NormalBalance BalanceSide `json:"normal_balance,omitempty"`
}

type UpdateAccountRequest struct {
	Label         string      `json:"label,omitempty"`
	Type          AccountType `json:"type,omitempty"`
	NormalBalance BalanceSide `json:"normal_balance,omitempty"`
}

type ListRequest struct {
	Class  int
	Search string
}

// ImportRow is one line of a bulk chart import.
type ImportRow struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ImportResult reports per-row outcomes of a bulk import.
type ImportResult struct {
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Errors  []ImportError `json:"errors,omitempty"`
}

type ImportError struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type Repository interface {
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, tc tenant.Context, id snowflake.ID) (*Account, error)
	FindByCode(ctx context.Context, tc tenant.Context, code string) (*Account, error)
	// FindParent returns the account whose code is the longest strict prefix
	// of code, or nil when no ancestor exists.
	FindParent(ctx context.Context, tc tenant.Context, code string) (*Account, error)
	// FindFirstByPrefix returns the lowest-coded account starting with prefix.
	FindFirstByPrefix(ctx context.Context, tc tenant.Context, prefix string) (*Account, error)
	List(ctx context.Context, tc tenant.Context, filter ListRequest) ([]Account, error)
	HasEntryLines(ctx context.Context, id snowflake.ID) (bool, error)
	Delete(ctx context.Context, tc tenant.Context, id snowflake.ID) error
}

type Service interface {
	Create(ctx context.Context, tc tenant.Context, req CreateAccountRequest) (*Account, error)
	Update(ctx context.Context, tc tenant.Context, id snowflake.ID, req UpdateAccountRequest) (*Account, error)
	Get(ctx context.Context, tc tenant.Context, id snowflake.ID) (*Account, error)
	List(ctx context.Context, tc tenant.Context, filter ListRequest) ([]Account, error)
	BulkImport(ctx context.Context, tc tenant.Context, rows []ImportRow) (*ImportResult, error)
	Delete(ctx context.Context, tc tenant.Context, id snowflake.ID) error
}
