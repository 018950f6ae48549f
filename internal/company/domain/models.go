package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is the tenant root. Accounts, journals and fiscal years are scoped
// to exactly one company.
type Company struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Currency  string       `gorm:"type:char(3);not null;default:'XOF'" json:"currency"`
	Country   string       `gorm:"type:char(2)" json:"country"`
	VatNumber string       `gorm:"type:text" json:"vat_number,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }

// Branch is an optional sub-division of a company used to scope journals.
type Branch struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Code      string       `gorm:"type:text;not null" json:"code"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Branch) TableName() string { return "branches" }

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidName    = errors.New("invalid_name")
	ErrNotFound       = errors.New("company_not_found")
)
