package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// AccountType classifies an account for statement building.
type AccountType string

const (
	TypeAsset     AccountType = "ASSET"
	TypeLiability AccountType = "LIABILITY"
	TypeExpense   AccountType = "EXPENSE"
	TypeRevenue   AccountType = "REVENUE"
)

// BalanceSide is the side on which an account's balance is conventionally
// positive.
type BalanceSide string

const (
	SideDebit  BalanceSide = "DEBIT"
	SideCredit BalanceSide = "CREDIT"
)

// Account is one node of a company's chart of accounts. The leading digit of
// Code is its SYSCOHADA class (1 equity/long-term debt, 2 fixed assets,
// 3 inventory, 4 third parties, 5 cash, 6 expense, 7 revenue, 8 extraordinary).
type Account struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID     snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_accounts_company_code,priority:1" json:"company_id"`
	Code          string        `gorm:"type:text;not null;uniqueIndex:ux_accounts_company_code,priority:2" json:"code"`
	Label         string        `gorm:"type:text;not null" json:"label"`
	Class         int           `gorm:"not null" json:"class"`
	Type          AccountType   `gorm:"type:text;not null" json:"type"`
	NormalBalance BalanceSide   `gorm:"type:text;not null" json:"normal_balance"`
	Level         int           `gorm:"not null;default:1" json:"level"`
	ParentID      *snowflake.ID `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

var (
	ErrInvalidAccountClass = errors.New("invalid_account_class")
	ErrInvalidCode         = errors.New("invalid_account_code")
	ErrInvalidLabel        = errors.New("invalid_account_label")
	ErrCodeExists          = errors.New("account_code_exists")
	ErrNotFound            = errors.New("account_not_found")
	ErrReferenced          = errors.New("account_referenced_by_entries")
)

// ClassOf returns the SYSCOHADA class of an account code, or
// ErrInvalidAccountClass when the leading digit is outside [1,8].
func ClassOf(code string) (int, error) {
	if code == "" {
		return 0, ErrInvalidAccountClass
	}
	c := code[0]
	if c < '1' || c > '8' {
		return 0, ErrInvalidAccountClass
	}
	return int(c - '0'), nil
}

// DeriveType maps an account code to its statement type. Class 4 defaults to
// receivable (asset) except supplier accounts (40x). Class 8 follows the
// SYSCOHADA convention of even second digits for HAO income.
func DeriveType(code string, class int) AccountType {
	switch class {
	case 1:
		return TypeLiability
	case 2, 3, 5:
		return TypeAsset
	case 4:
		if len(code) >= 2 && code[1] == '0' {
			return TypeLiability
		}
		return TypeAsset
	case 6:
		return TypeExpense
	case 7:
		return TypeRevenue
	case 8:
		if len(code) >= 2 && (code[1]-'0')%2 == 0 {
			return TypeRevenue
		}
		return TypeExpense
	default:
		return TypeAsset
	}
}

// DeriveNormalBalance returns the conventional balance side for a type.
func DeriveNormalBalance(t AccountType) BalanceSide {
	switch t {
	case TypeAsset, TypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}
