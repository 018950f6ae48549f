package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// PartyKind distinguishes the auxiliary roles a third party can play.
type PartyKind string

const (
	KindClient   PartyKind = "CLIENT"
	KindSupplier PartyKind = "SUPPLIER"
	KindEmployee PartyKind = "EMPLOYEE"
)

// ThirdParty is an auxiliary dimension referenced by entry lines on
// receivable/payable accounts. The ledger references it but does not own it.
type ThirdParty struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;index" json:"company_id"`
	Kind       PartyKind    `gorm:"type:text;not null" json:"kind"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	VatSubject bool         `gorm:"not null;default:false" json:"vat_subject"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ThirdParty) TableName() string { return "third_parties" }

// CostCenter is an analytical dimension for expense allocation.
type CostCenter struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Code      string       `gorm:"type:text;not null" json:"code"`
	Label     string       `gorm:"type:text;not null" json:"label"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (CostCenter) TableName() string { return "cost_centers" }

var (
	ErrInvalidKind = errors.New("invalid_party_kind")
	ErrInvalidName = errors.New("invalid_party_name")
	ErrNotFound    = errors.New("third_party_not_found")
)
