package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/zinari/zinari/internal/clock"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Repo  companydomain.Repository
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	repo  companydomain.Repository
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

func NewService(p Params) companydomain.Service {
	return &Service{
		repo:  p.Repo,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req companydomain.CreateCompanyRequest) (*companydomain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, companydomain.ErrInvalidName
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "XOF"
	}

	now := s.clock.Now()
	company := &companydomain.Company{
		ID:        s.genID.Generate(),
		Name:      name,
		Currency:  currency,
		Country:   strings.ToUpper(strings.TrimSpace(req.Country)),
		VatNumber: strings.TrimSpace(req.VatNumber),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}

	s.log.Info("company created", zap.String("company_id", company.ID.String()), zap.String("name", company.Name))
	return company, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*companydomain.Company, error) {
	company, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, companydomain.ErrNotFound
	}
	return company, nil
}

func (s *Service) List(ctx context.Context) ([]companydomain.Company, error) {
	return s.repo.List(ctx)
}
