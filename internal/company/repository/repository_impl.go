package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) companydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, company *companydomain.Company) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO companies (id, name, currency, country, vat_number, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		company.ID,
		company.Name,
		company.Currency,
		company.Country,
		company.VatNumber,
		company.CreatedAt,
		company.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*companydomain.Company, error) {
	var company companydomain.Company
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, name, currency, country, vat_number, created_at, updated_at
		 FROM companies WHERE id = ?`,
		id,
	).Scan(&company).Error
	if err != nil {
		return nil, err
	}
	if company.ID == 0 {
		return nil, nil
	}
	return &company, nil
}

func (r *repository) List(ctx context.Context) ([]companydomain.Company, error) {
	var companies []companydomain.Company
	if err := r.db.WithContext(ctx).Model(&companydomain.Company{}).Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}
