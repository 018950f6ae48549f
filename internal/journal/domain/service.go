package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/zinari/zinari/pkg/tenant"
)

type CreateJournalRequest struct {
	Code  string      `json:"code"`
	Label string      `json:"label"`
	Type  JournalType `json:"type"`
}

type CreateFiscalYearRequest struct {
	Label     string    `json:"label"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type Repository interface {
	CreateJournal(ctx context.Context, journal *Journal) error
	FindJournalByID(ctx context.Context, tc tenant.Context, id snowflake.ID) (*Journal, error)
	FindJournalByCode(ctx context.Context, tc tenant.Context, code string) (*Journal, error)
	FindJournalByType(ctx context.Context, tc tenant.Context, jt JournalType) (*Journal, error)
	ListJournals(ctx context.Context, tc tenant.Context) ([]Journal, error)

	CreateFiscalYear(ctx context.Context, fy *FiscalYear) error
	FindFiscalYearByID(ctx context.Context, tc tenant.Context, id snowflake.ID) (*FiscalYear, error)
	FindFiscalYearForDate(ctx context.Context, tc tenant.Context, date time.Time) (*FiscalYear, error)
	ListFiscalYears(ctx context.Context, tc tenant.Context) ([]FiscalYear, error)
	MarkClosed(ctx context.Context, tc tenant.Context, id snowflake.ID, closedAt time.Time) error
}

type Service interface {
	CreateJournal(ctx context.Context, tc tenant.Context, req CreateJournalRequest) (*Journal, error)
	GetJournal(ctx context.Context, tc tenant.Context, id snowflake.ID) (*Journal, error)
	ListJournals(ctx context.Context, tc tenant.Context) ([]Journal, error)

	CreateFiscalYear(ctx context.Context, tc tenant.Context, req CreateFiscalYearRequest) (*FiscalYear, error)
	GetFiscalYear(ctx context.Context, tc tenant.Context, id snowflake.ID) (*FiscalYear, error)
	ListFiscalYears(ctx context.Context, tc tenant.Context) ([]FiscalYear, error)
	CloseFiscalYear(ctx context.Context, tc tenant.Context, id snowflake.ID) (*FiscalYear, error)
}
