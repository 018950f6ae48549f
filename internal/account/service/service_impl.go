package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	"github.com/zinari/zinari/internal/clock"
	"github.com/zinari/zinari/pkg/db"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Repo  accountdomain.Repository
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	repo  accountdomain.Repository
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p Params) accountdomain.Service {
	return &Service{
		repo:  p.Repo,
		log:   p.Log.Named("account.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, tc tenant.Context, req accountdomain.CreateAccountRequest) (*accountdomain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, accountdomain.ErrInvalidCode
	}
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, accountdomain.ErrInvalidLabel
	}

	class, err := accountdomain.ClassOf(code)
	if err != nil {
		return nil, err
	}

	accountType := req.Type
	if accountType == "" {
		accountType = accountdomain.DeriveType(code, class)
	}
	normalBalance := req.NormalBalance
	if normalBalance == "" {
		normalBalance = accountdomain.DeriveNormalBalance(accountType)
	}

	parent, err := s.repo.FindParent(ctx, tc, code)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &accountdomain.Account{
		ID:            s.genID.Generate(),
		CompanyID:     tc.CompanyID,
		Code:          code,
		Label:         label,
		Class:         class,
		Type:          accountType,
		NormalBalance: normalBalance,
		Level:         1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if parent != nil {
		id := parent.ID
		account.ParentID = &id
		account.Level = parent.Level + 1
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, accountdomain.ErrCodeExists
		}
		return nil, err
	}

	s.log.Info("account created",
		zap.String("company_id", tc.CompanyID.String()),
		zap.String("code", account.Code),
	)
	return account, nil
}

func (s *Service) Update(ctx context.Context, tc tenant.Context, id snowflake.ID, req accountdomain.UpdateAccountRequest) (*accountdomain.Account, error) {
	account, err := s.repo.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrNotFound
	}

	if label := strings.TrimSpace(req.Label); label != "" {
		account.Label = label
	}
	if req.Type != "" {
		account.Type = req.Type
		account.NormalBalance = accountdomain.DeriveNormalBalance(req.Type)
	}
	if req.NormalBalance != "" {
		account.NormalBalance = req.NormalBalance
	}
	account.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) Get(ctx context.Context, tc tenant.Context, id snowflake.ID) (*accountdomain.Account, error) {
	account, err := s.repo.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountdomain.ErrNotFound
	}
	return account, nil
}

func (s *Service) List(ctx context.Context, tc tenant.Context, filter accountdomain.ListRequest) ([]accountdomain.Account, error) {
	return s.repo.List(ctx, tc, filter)
}

// BulkImport creates accounts from rows, shortest codes first so that parents
// created in the same batch are resolvable for their children.
func (s *Service) BulkImport(ctx context.Context, tc tenant.Context, rows []accountdomain.ImportRow) (*accountdomain.ImportResult, error) {
	sorted := make([]accountdomain.ImportRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Code) != len(sorted[j].Code) {
			return len(sorted[i].Code) < len(sorted[j].Code)
		}
		return sorted[i].Code < sorted[j].Code
	})

	result := &accountdomain.ImportResult{}
	for _, row := range sorted {
		_, err := s.Create(ctx, tc, accountdomain.CreateAccountRequest{
			Code:  row.Code,
			Label: row.Label,
		})
		switch {
		case err == nil:
			result.Created++
		case err == accountdomain.ErrCodeExists:
			result.Skipped++
		default:
			result.Errors = append(result.Errors, accountdomain.ImportError{
				Code:   row.Code,
				Reason: err.Error(),
			})
		}
	}

	s.log.Info("chart import finished",
		zap.String("company_id", tc.CompanyID.String()),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, tc tenant.Context, id snowflake.ID) error {
	account, err := s.repo.FindByID(ctx, tc, id)
	if err != nil {
		return err
	}
	if account == nil {
		return accountdomain.ErrNotFound
	}

	referenced, err := s.repo.HasEntryLines(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return accountdomain.ErrReferenced
	}

	return s.repo.Delete(ctx, tc, id)
}
