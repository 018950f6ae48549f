package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/zinari/zinari/internal/clock"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	"github.com/zinari/zinari/pkg/db"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Repo  journaldomain.Repository
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	repo  journaldomain.Repository
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p Params) journaldomain.Service {
	return &Service{
		repo:  p.Repo,
		log:   p.Log.Named("journal.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) CreateJournal(ctx context.Context, tc tenant.Context, req journaldomain.CreateJournalRequest) (*journaldomain.Journal, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, journaldomain.ErrInvalidCode
	}
	switch req.Type {
	case journaldomain.JournalSale, journaldomain.JournalPurchase, journaldomain.JournalBank,
		journaldomain.JournalCash, journaldomain.JournalPayroll, journaldomain.JournalStock,
		journaldomain.JournalOD:
	default:
		return nil, journaldomain.ErrInvalidType
	}

	journal := &journaldomain.Journal{
		ID:        s.genID.Generate(),
		CompanyID: tc.CompanyID,
		BranchID:  tc.BranchID,
		Code:      code,
		Label:     strings.TrimSpace(req.Label),
		Type:      req.Type,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateJournal(ctx, journal); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, journaldomain.ErrCodeExists
		}
		return nil, err
	}

	s.log.Info("journal created",
		zap.String("company_id", tc.CompanyID.String()),
		zap.String("code", journal.Code),
		zap.String("type", string(journal.Type)),
	)
	return journal, nil
}

func (s *Service) GetJournal(ctx context.Context, tc tenant.Context, id snowflake.ID) (*journaldomain.Journal, error) {
	journal, err := s.repo.FindJournalByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, journaldomain.ErrJournalNotFound
	}
	return journal, nil
}

func (s *Service) ListJournals(ctx context.Context, tc tenant.Context) ([]journaldomain.Journal, error) {
	return s.repo.ListJournals(ctx, tc)
}

func (s *Service) CreateFiscalYear(ctx context.Context, tc tenant.Context, req journaldomain.CreateFiscalYearRequest) (*journaldomain.FiscalYear, error) {
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		return nil, journaldomain.ErrInvalidPeriod
	}

	fy := &journaldomain.FiscalYear{
		ID:        s.genID.Generate(),
		CompanyID: tc.CompanyID,
		Label:     strings.TrimSpace(req.Label),
		StartDate: req.StartDate.UTC(),
		EndDate:   req.EndDate.UTC(),
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateFiscalYear(ctx, fy); err != nil {
		return nil, err
	}
	return fy, nil
}

func (s *Service) GetFiscalYear(ctx context.Context, tc tenant.Context, id snowflake.ID) (*journaldomain.FiscalYear, error) {
	fy, err := s.repo.FindFiscalYearByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if fy == nil {
		return nil, journaldomain.ErrFiscalYearNotFound
	}
	return fy, nil
}

func (s *Service) ListFiscalYears(ctx context.Context, tc tenant.Context) ([]journaldomain.FiscalYear, error) {
	return s.repo.ListFiscalYears(ctx, tc)
}

// CloseFiscalYear is one-way; there is no reopen.
func (s *Service) CloseFiscalYear(ctx context.Context, tc tenant.Context, id snowflake.ID) (*journaldomain.FiscalYear, error) {
	fy, err := s.repo.FindFiscalYearByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if fy == nil {
		return nil, journaldomain.ErrFiscalYearNotFound
	}
	if fy.Closed {
		return nil, journaldomain.ErrAlreadyClosed
	}

	closedAt := s.clock.Now()
	if err := s.repo.MarkClosed(ctx, tc, id, closedAt); err != nil {
		return nil, err
	}
	fy.Closed = true
	fy.ClosedAt = &closedAt

	s.log.Info("fiscal year closed",
		zap.String("company_id", tc.CompanyID.String()),
		zap.String("fiscal_year_id", id.String()),
	)
	return fy, nil
}
