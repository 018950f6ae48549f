package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// DocumentStatus tracks whether a business document reached the ledger.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusValidated DocumentStatus = "VALIDATED"
	StatusPosted    DocumentStatus = "POSTED"
)

// PaymentMethod selects the treasury account and journal of a settlement.
type PaymentMethod string

const (
	MethodCash        PaymentMethod = "CASH"
	MethodBank        PaymentMethod = "BANK_TRANSFER"
	MethodCheck       PaymentMethod = "CHECK"
	MethodMobileMoney PaymentMethod = "MOBILE_MONEY"
)

// UsesCash reports whether the method settles through the cash account
// rather than a bank account.
func (m PaymentMethod) UsesCash() bool { return m == MethodCash }

// Invoice is a validated client invoice awaiting its sales posting.
type Invoice struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID    `gorm:"not null;index" json:"company_id"`
	ThirdPartyID snowflake.ID    `gorm:"not null;index" json:"third_party_id"`
	Reference    string          `gorm:"type:text;not null" json:"reference"`
	IssueDate    time.Time       `gorm:"not null" json:"issue_date"`
	Currency     string          `gorm:"type:char(3);not null" json:"currency"`
	NetAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"net_amount"`
	TaxAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"tax_amount"`
	GrossAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"gross_amount"`
	Status       DocumentStatus  `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Invoice) TableName() string { return "invoices" }

// Payment is a client settlement against an invoice.
type Payment struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID    `gorm:"not null;index" json:"company_id"`
	InvoiceID    snowflake.ID    `gorm:"index" json:"invoice_id,omitempty"`
	ThirdPartyID snowflake.ID    `gorm:"not null;index" json:"third_party_id"`
	Method       PaymentMethod   `gorm:"type:text;not null" json:"method"`
	Currency     string          `gorm:"type:char(3);not null" json:"currency"`
	Amount       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	PaidAt       time.Time       `gorm:"not null" json:"paid_at"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// PurchaseOrder is a supplier order; marking it received triggers the
// purchase-bill posting.
type PurchaseOrder struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID    `gorm:"not null;index" json:"company_id"`
	SupplierID snowflake.ID    `gorm:"not null;index" json:"supplier_id"`
	Reference  string          `gorm:"type:text;not null" json:"reference"`
	Currency   string          `gorm:"type:char(3);not null" json:"currency"`
	NetAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"net_amount"`
	ReceivedAt *time.Time      `json:"received_at,omitempty"`
	Status     DocumentStatus  `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	CreatedAt  time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PurchaseOrder) TableName() string { return "purchase_orders" }

// Payslip carries the payroll aggregates needed by the salary postings.
// Net pay is derived: gross minus employee contributions minus withheld tax.
type Payslip struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID       snowflake.ID    `gorm:"not null;index" json:"company_id"`
	EmployeeID      snowflake.ID    `gorm:"not null;index" json:"employee_id"`
	Period          string          `gorm:"type:text;not null" json:"period"`
	Currency        string          `gorm:"type:char(3);not null" json:"currency"`
	GrossSalary     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"gross_salary"`
	EmployeeContrib decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"employee_contrib"`
	EmployerContrib decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"employer_contrib"`
	TaxWithheld     decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"tax_withheld"`
	PayDate         time.Time       `gorm:"not null" json:"pay_date"`
	Status          DocumentStatus  `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payslip) TableName() string { return "payslips" }

// NetPay is the amount due to the employee.
func (p Payslip) NetPay() decimal.Decimal {
	return p.GrossSalary.Sub(p.EmployeeContrib).Sub(p.TaxWithheld)
}
