package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	postingdomain "github.com/zinari/zinari/internal/posting/domain"
	"github.com/zinari/zinari/pkg/tenant"
	"gorm.io/gorm"
)

// Repository loads the business documents posting automation acts on and
// flips their status once posted.
type Repository interface {
	CreateInvoice(ctx context.Context, invoice *postingdomain.Invoice) error
	CreatePayment(ctx context.Context, payment *postingdomain.Payment) error
	CreatePurchaseOrder(ctx context.Context, order *postingdomain.PurchaseOrder) error
	CreatePayslip(ctx context.Context, payslip *postingdomain.Payslip) error

	FindInvoice(ctx context.Context, tc tenant.Context, id snowflake.ID) (*postingdomain.Invoice, error)
	FindPayment(ctx context.Context, tc tenant.Context, id snowflake.ID) (*postingdomain.Payment, error)
	FindPurchaseOrder(ctx context.Context, tc tenant.Context, id snowflake.ID) (*postingdomain.PurchaseOrder, error)
	FindPayslip(ctx context.Context, tc tenant.Context, id snowflake.ID) (*postingdomain.Payslip, error)
	MarkPosted(ctx context.Context, table string, tc tenant.Context, id snowflake.ID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *postingdomain.Invoice) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO invoices (id, company_id, third_party_id, reference, issue_date, currency, net_amount, tax_amount, gross_amount, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.CompanyID,
		invoice.ThirdPartyID,
		invoice.Reference,
		invoice.IssueDate,
		invoice.Currency,
		invoice.NetAmount,
		invoice.TaxAmount,
		invoice.GrossAmount,
		invoice.Status,
		invoice.CreatedAt,
	).Error
}

func (r *repository) CreatePayment(ctx context.Context, payment *postingdomain.Payment) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, company_id, invoice_id, third_party_id, method, currency, amount, paid_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.CompanyID,
		payment.InvoiceID,
		payment.ThirdPartyID,
		payment.Method,
		payment.Currency,
		payment.Amount,
		payment.PaidAt,
		payment.CreatedAt,
	).Error
}

func (r *repository) CreatePurchaseOrder(ctx context.Context, order *postingdomain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO purchase_orders (id, company_id, supplier_id, reference, currency, net_amount, received_at, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID,
		order.CompanyID,
		order.SupplierID,
		order.Reference,
		order.Currency,
		order.NetAmount,
		order.ReceivedAt,
		order.Status,
		order.CreatedAt,
	).Error
}

func (r *repository) CreatePayslip(ctx context.Context, payslip *postingdomain.Payslip) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO payslips (id, company_id, employee_id, period, currency, gross_salary, employee_contrib, employer_contrib, tax_withheld, pay_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payslip.ID,
		payslip.CompanyID,
		payslip.EmployeeID,
		payslip.Period,
		payslip.Currency,
		payslip.GrossSalary,
		payslip.EmployeeContrib,
		payslip.EmployerContrib,
		payslip.TaxWithheld,
		payslip.PayDate,
		payslip.Status,
		payslip.CreatedAt,
	).Error
}

func (r *repository) FindInvoice(ctx context.Context, tc tenant.Context, id snowflake.ID) (*postingdomain.Invoice, error) {
	var invoice postingdomain.Invoice
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repository) FindPayment(ctx context.Context, tc tenant.Context, id snowflake.ID) (*postingdomain.Payment, error) {
	var payment postingdomain.Payment
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repository) FindPurchaseOrder(ctx context.Context, tc tenant.Context, id snowflake.ID) (*postingdomain.PurchaseOrder, error) {
	var order postingdomain.PurchaseOrder
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repository) FindPayslip(ctx context.Context, tc tenant.Context, id snowflake.ID) (*postingdomain.Payslip, error) {
	var payslip postingdomain.Payslip
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Limit(1).
		Find(&payslip).Error
	if err != nil {
		return nil, err
	}
	if payslip.ID == 0 {
		return nil, nil
	}
	return &payslip, nil
}

func (r *repository) MarkPosted(ctx context.Context, table string, tc tenant.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Table(table).
		Where("company_id = ? AND id = ?", tc.CompanyID, id).
		Update("status", postingdomain.StatusPosted).Error
}
