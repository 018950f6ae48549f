package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	partydomain "github.com/zinari/zinari/internal/party/domain"
	"github.com/zinari/zinari/pkg/tenant"
	"gorm.io/gorm"
)

type Repository interface {
	CreateThirdParty(ctx context.Context, party *partydomain.ThirdParty) error
	FindThirdPartyByID(ctx context.Context, tc tenant.Context, id snowflake.ID) (*partydomain.ThirdParty, error)
	ListThirdParties(ctx context.Context, tc tenant.Context, kind partydomain.PartyKind) ([]partydomain.ThirdParty, error)

	CreateCostCenter(ctx context.Context, cc *partydomain.CostCenter) error
	ListCostCenters(ctx context.Context, tc tenant.Context) ([]partydomain.CostCenter, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateThirdParty(ctx context.Context, party *partydomain.ThirdParty) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO third_parties (id, company_id, kind, name, vat_subject, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		party.ID,
		party.CompanyID,
		party.Kind,
		party.Name,
		party.VatSubject,
		party.CreatedAt,
	).Error
}

func (r *repository) FindThirdPartyByID(ctx context.Context, tc tenant.Context, id snowflake.ID) (*partydomain.ThirdParty, error) {
	var party partydomain.ThirdParty
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&party).Error
	if err != nil {
		return nil, err
	}
	if party.ID == 0 {
		return nil, nil
	}
	return &party, nil
}

func (r *repository) ListThirdParties(ctx context.Context, tc tenant.Context, kind partydomain.PartyKind) ([]partydomain.ThirdParty, error) {
	stmt := r.db.WithContext(ctx).
		Model(&partydomain.ThirdParty{}).
		Where("company_id = ?", tc.CompanyID)
	if kind != "" {
		stmt = stmt.Where("kind = ?", kind)
	}

	var parties []partydomain.ThirdParty
	if err := stmt.Order("name ASC").Find(&parties).Error; err != nil {
		return nil, err
	}
	return parties, nil
}

func (r *repository) CreateCostCenter(ctx context.Context, cc *partydomain.CostCenter) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO cost_centers (id, company_id, code, label, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		cc.ID,
		cc.CompanyID,
		cc.Code,
		cc.Label,
		cc.CreatedAt,
	).Error
}

func (r *repository) ListCostCenters(ctx context.Context, tc tenant.Context) ([]partydomain.CostCenter, error) {
	var centers []partydomain.CostCenter
	err := r.db.WithContext(ctx).
		Model(&partydomain.CostCenter{}).
		Where("company_id = ?", tc.CompanyID).
		Order("code ASC").
		Find(&centers).Error
	if err != nil {
		return nil, err
	}
	return centers, nil
}
