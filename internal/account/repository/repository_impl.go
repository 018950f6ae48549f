package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	"github.com/zinari/zinari/pkg/tenant"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) accountdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, account *accountdomain.Account) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO accounts (
			id, company_id, code, label, class, type, normal_balance, level, parent_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.CompanyID,
		account.Code,
		account.Label,
		account.Class,
		account.Type,
		account.NormalBalance,
		account.Level,
		account.ParentID,
		account.CreatedAt,
		account.UpdatedAt,
	).Error
}

func (r *repository) Update(ctx context.Context, account *accountdomain.Account) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE accounts
		 SET label = ?, type = ?, normal_balance = ?, updated_at = ?
		 WHERE company_id = ? AND id = ?`,
		account.Label,
		account.Type,
		account.NormalBalance,
		account.UpdatedAt,
		account.CompanyID,
		account.ID,
	).Error
}

func (r *repository) FindByID(ctx context.Context, tc tenant.Context, id snowflake.ID) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repository) FindByCode(ctx context.Context, tc tenant.Context, code string) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND code = ?", tc.CompanyID, code).
		Limit(1).
		Find(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repository) FindParent(ctx context.Context, tc tenant.Context, code string) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := r.db.WithContext(ctx).Raw(
		`SELECT * FROM accounts
		 WHERE company_id = ?
		   AND code <> ?
		   AND ? LIKE code || '%'
		 ORDER BY LENGTH(code) DESC
		 LIMIT 1`,
		tc.CompanyID,
		code,
		code,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repository) FindFirstByPrefix(ctx context.Context, tc tenant.Context, prefix string) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND code LIKE ?", tc.CompanyID, prefix+"%").
		Order("code ASC").
		Limit(1).
		Find(&account).Error
	if err != nil {
		return nil, err
	}
	if account.ID == 0 {
		return nil, nil
	}
	return &account, nil
}

func (r *repository) List(ctx context.Context, tc tenant.Context, filter accountdomain.ListRequest) ([]accountdomain.Account, error) {
	stmt := r.db.WithContext(ctx).
		Model(&accountdomain.Account{}).
		Where("company_id = ?", tc.CompanyID)

	if filter.Class != 0 {
		stmt = stmt.Where("class = ?", filter.Class)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		stmt = stmt.Where("code LIKE ? OR label LIKE ?", pattern, pattern)
	}

	var accounts []accountdomain.Account
	if err := stmt.Order("code ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repository) HasEntryLines(ctx context.Context, id snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("entry_lines").
		Where("account_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Delete(ctx context.Context, tc tenant.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM accounts WHERE company_id = ? AND id = ?`,
		tc.CompanyID,
		id,
	).Error
}
