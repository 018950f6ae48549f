package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	auditdomain "github.com/zinari/zinari/internal/audit/domain"
	"github.com/zinari/zinari/internal/config"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	obsmetrics "github.com/zinari/zinari/internal/observability/metrics"
	partyrepository "github.com/zinari/zinari/internal/party/repository"
	postingdomain "github.com/zinari/zinari/internal/posting/domain"
	postingrepository "github.com/zinari/zinari/internal/posting/repository"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Repo       postingrepository.Repository
	Accounts   accountdomain.Repository
	Journals   journaldomain.Repository
	Parties    partyrepository.Repository
	Ledger     ledgerdomain.Service
	AuditSvc   auditdomain.Service
	Chart      *config.ChartConfigHolder
	Log        *zap.Logger
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	repo       postingrepository.Repository
	accounts   accountdomain.Repository
	journals   journaldomain.Repository
	parties    partyrepository.Repository
	ledger     ledgerdomain.Service
	auditSvc   auditdomain.Service
	chart      *config.ChartConfigHolder
	log        *zap.Logger
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) postingdomain.Service {
	return &Service{
		repo:       p.Repo,
		accounts:   p.Accounts,
		journals:   p.Journals,
		parties:    p.Parties,
		ledger:     p.Ledger,
		auditSvc:   p.AuditSvc,
		chart:      p.Chart,
		log:        p.Log.Named("posting.service"),
		obsMetrics: p.ObsMetrics,
	}
}

// PostInvoice books a validated client invoice: debit the client receivable
// for the gross amount, credit revenue for the net amount and collected VAT
// for the tax amount.
func (s *Service) PostInvoice(ctx context.Context, tc tenant.Context, invoiceID snowflake.ID) (*ledgerdomain.Entry, error) {
	entry, err := s.postInvoice(ctx, tc, invoiceID)
	return s.finish(ctx, tc, postingdomain.FlowInvoice, invoiceID, entry, err)
}

func (s *Service) postInvoice(ctx context.Context, tc tenant.Context, invoiceID snowflake.ID) (*ledgerdomain.Entry, error) {
	invoice, err := s.repo.FindInvoice(ctx, tc, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, postingdomain.ErrDocumentNotFound
	}

	chart := s.chart.Get()
	clientAccount, err := s.resolveAccount(ctx, tc, "client", chart.ClientPrefix)
	if err != nil {
		return nil, err
	}
	salesAccount, err := s.resolveAccount(ctx, tc, "sales", chart.SalesPrefix)
	if err != nil {
		return nil, err
	}

	journal, err := s.resolveJournal(ctx, tc, journaldomain.JournalSale)
	if err != nil {
		return nil, err
	}

	thirdPartyID := invoice.ThirdPartyID
	lines := []ledgerdomain.LineDraft{
		{
			AccountID:    clientAccount.ID,
			ThirdPartyID: &thirdPartyID,
			Label:        "Invoice " + invoice.Reference,
			Debit:        invoice.GrossAmount,
		},
		{
			AccountID: salesAccount.ID,
			Label:     "Invoice " + invoice.Reference,
			Credit:    invoice.NetAmount,
		},
	}
	if invoice.TaxAmount.IsPositive() {
		vatAccount, err := s.resolveAccount(ctx, tc, "vat_collected", chart.VatCollectedPrefix)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ledgerdomain.LineDraft{
			AccountID: vatAccount.ID,
			Label:     "VAT " + invoice.Reference,
			Credit:    invoice.TaxAmount,
		})
	}

	result, err := s.ledger.Create(ctx, tc, ledgerdomain.EntryDraft{
		JournalID:   journal.ID,
		EntryDate:   invoice.IssueDate,
		Description: "Sale invoice " + invoice.Reference,
		Currency:    invoice.Currency,
		Status:      ledgerdomain.StatusValidated,
		SourceType:  ledgerdomain.SourceInvoice,
		SourceID:    invoice.ID,
		Lines:       lines,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkPosted(ctx, "invoices", tc, invoice.ID); err != nil {
		return nil, err
	}
	return result.Entry, nil
}

// PostPayment books a client settlement: debit cash or bank by method, credit
// the client receivable with the third-party reference.
func (s *Service) PostPayment(ctx context.Context, tc tenant.Context, paymentID snowflake.ID) (*ledgerdomain.Entry, error) {
	entry, err := s.postPayment(ctx, tc, paymentID)
	return s.finish(ctx, tc, postingdomain.FlowPayment, paymentID, entry, err)
}

func (s *Service) postPayment(ctx context.Context, tc tenant.Context, paymentID snowflake.ID) (*ledgerdomain.Entry, error) {
	payment, err := s.repo.FindPayment(ctx, tc, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, postingdomain.ErrDocumentNotFound
	}

	treasuryAccount, journal, err := s.resolveTreasury(ctx, tc, payment.Method)
	if err != nil {
		return nil, err
	}
	chart := s.chart.Get()
	clientAccount, err := s.resolveAccount(ctx, tc, "client", chart.ClientPrefix)
	if err != nil {
		return nil, err
	}

	thirdPartyID := payment.ThirdPartyID
	result, err := s.ledger.Create(ctx, tc, ledgerdomain.EntryDraft{
		JournalID:   journal.ID,
		EntryDate:   payment.PaidAt,
		Description: "Client payment",
		Currency:    payment.Currency,
		Status:      ledgerdomain.StatusValidated,
		SourceType:  ledgerdomain.SourcePayment,
		SourceID:    payment.ID,
		Lines: []ledgerdomain.LineDraft{
			{
				AccountID: treasuryAccount.ID,
				Label:     "Payment received",
				Debit:     payment.Amount,
			},
			{
				AccountID:    clientAccount.ID,
				ThirdPartyID: &thirdPartyID,
				Label:        "Payment received",
				Credit:       payment.Amount,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Entry, nil
}

// PostPurchaseBill books a received purchase order: debit the purchase
// expense for the net amount, debit deductible VAT at the standard rate when
// the supplier is VAT-subject, credit the supplier payable for the gross.
func (s *Service) PostPurchaseBill(ctx context.Context, tc tenant.Context, orderID snowflake.ID) (*ledgerdomain.Entry, error) {
	entry, err := s.postPurchaseBill(ctx, tc, orderID)
	return s.finish(ctx, tc, postingdomain.FlowPurchase, orderID, entry, err)
}

func (s *Service) postPurchaseBill(ctx context.Context, tc tenant.Context, orderID snowflake.ID) (*ledgerdomain.Entry, error) {
	order, err := s.repo.FindPurchaseOrder(ctx, tc, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, postingdomain.ErrDocumentNotFound
	}
	if order.ReceivedAt == nil {
		return nil, postingdomain.ErrNotReceived
	}

	supplier, err := s.parties.FindThirdPartyByID(ctx, tc, order.SupplierID)
	if err != nil {
		return nil, err
	}

	chart := s.chart.Get()
	purchaseAccount, err := s.resolveAccount(ctx, tc, "purchase", chart.PurchasePrefix)
	if err != nil {
		return nil, err
	}
	supplierAccount, err := s.resolveAccount(ctx, tc, "supplier", chart.SupplierPrefix)
	if err != nil {
		return nil, err
	}
	journal, err := s.resolveJournal(ctx, tc, journaldomain.JournalPurchase)
	if err != nil {
		return nil, err
	}

	net := order.NetAmount
	gross := net
	supplierID := order.SupplierID
	lines := []ledgerdomain.LineDraft{
		{
			AccountID: purchaseAccount.ID,
			Label:     "Purchase " + order.Reference,
			Debit:     net,
		},
	}
	if supplier != nil && supplier.VatSubject {
		vat := net.Mul(decimalFromRate(chart.StandardVatRate)).Round(2)
		if vat.IsPositive() {
			vatAccount, err := s.resolveAccount(ctx, tc, "vat_deductible", chart.VatDeductiblePrefix)
			if err != nil {
				return nil, err
			}
			lines = append(lines, ledgerdomain.LineDraft{
				AccountID: vatAccount.ID,
				Label:     "Deductible VAT " + order.Reference,
				Debit:     vat,
			})
			gross = gross.Add(vat)
		}
	}
	lines = append(lines, ledgerdomain.LineDraft{
		AccountID:    supplierAccount.ID,
		ThirdPartyID: &supplierID,
		Label:        "Supplier bill " + order.Reference,
		Credit:       gross,
	})

	result, err := s.ledger.Create(ctx, tc, ledgerdomain.EntryDraft{
		JournalID:   journal.ID,
		EntryDate:   *order.ReceivedAt,
		Description: "Purchase bill " + order.Reference,
		Currency:    order.Currency,
		Status:      ledgerdomain.StatusValidated,
		SourceType:  ledgerdomain.SourcePurchase,
		SourceID:    order.ID,
		Lines:       lines,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkPosted(ctx, "purchase_orders", tc, order.ID); err != nil {
		return nil, err
	}
	return result.Entry, nil
}

// PostPayroll books a processed payslip: debit gross salary and employer
// contributions, credit the social-contribution, withheld-tax and net-pay-due
// liability accounts.
func (s *Service) PostPayroll(ctx context.Context, tc tenant.Context, payslipID snowflake.ID) (*ledgerdomain.Entry, error) {
	entry, err := s.postPayroll(ctx, tc, payslipID)
	return s.finish(ctx, tc, postingdomain.FlowPayroll, payslipID, entry, err)
}

func (s *Service) postPayroll(ctx context.Context, tc tenant.Context, payslipID snowflake.ID) (*ledgerdomain.Entry, error) {
	payslip, err := s.repo.FindPayslip(ctx, tc, payslipID)
	if err != nil {
		return nil, err
	}
	if payslip == nil {
		return nil, postingdomain.ErrDocumentNotFound
	}

	chart := s.chart.Get()
	grossAccount, err := s.resolveAccount(ctx, tc, "gross_salary", chart.GrossSalaryPrefix)
	if err != nil {
		return nil, err
	}
	employerAccount, err := s.resolveAccount(ctx, tc, "employer_contrib", chart.EmployerContribs)
	if err != nil {
		return nil, err
	}
	socialAccount, err := s.resolveAccount(ctx, tc, "social_liability", chart.SocialLiability)
	if err != nil {
		return nil, err
	}
	taxAccount, err := s.resolveAccount(ctx, tc, "withheld_tax", chart.WithheldTaxPrefix)
	if err != nil {
		return nil, err
	}
	netPayAccount, err := s.resolveAccount(ctx, tc, "net_pay_due", chart.NetPayDuePrefix)
	if err != nil {
		return nil, err
	}
	journal, err := s.resolveJournal(ctx, tc, journaldomain.JournalPayroll)
	if err != nil {
		return nil, err
	}

	employeeID := payslip.EmployeeID
	social := payslip.EmployeeContrib.Add(payslip.EmployerContrib)
	lines := []ledgerdomain.LineDraft{
		{AccountID: grossAccount.ID, Label: "Gross salary " + payslip.Period, Debit: payslip.GrossSalary},
		{AccountID: employerAccount.ID, Label: "Employer contributions " + payslip.Period, Debit: payslip.EmployerContrib},
		{AccountID: socialAccount.ID, Label: "Social contributions " + payslip.Period, Credit: social},
		{AccountID: taxAccount.ID, Label: "Withheld tax " + payslip.Period, Credit: payslip.TaxWithheld},
		{AccountID: netPayAccount.ID, ThirdPartyID: &employeeID, Label: "Net pay due " + payslip.Period, Credit: payslip.NetPay()},
	}

	result, err := s.ledger.Create(ctx, tc, ledgerdomain.EntryDraft{
		JournalID:   journal.ID,
		EntryDate:   payslip.PayDate,
		Description: "Payroll " + payslip.Period,
		Currency:    payslip.Currency,
		Status:      ledgerdomain.StatusValidated,
		SourceType:  ledgerdomain.SourcePayroll,
		SourceID:    payslip.ID,
		Lines:       lines,
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkPosted(ctx, "payslips", tc, payslip.ID); err != nil {
		return nil, err
	}
	return result.Entry, nil
}

// PostSalaryPayment settles the net-pay-due liability through cash or bank.
func (s *Service) PostSalaryPayment(ctx context.Context, tc tenant.Context, payslipID snowflake.ID, method postingdomain.PaymentMethod, date time.Time) (*ledgerdomain.Entry, error) {
	entry, err := s.postSalaryPayment(ctx, tc, payslipID, method, date)
	return s.finish(ctx, tc, postingdomain.FlowSalaryPayment, payslipID, entry, err)
}

func (s *Service) postSalaryPayment(ctx context.Context, tc tenant.Context, payslipID snowflake.ID, method postingdomain.PaymentMethod, date time.Time) (*ledgerdomain.Entry, error) {
	payslip, err := s.repo.FindPayslip(ctx, tc, payslipID)
	if err != nil {
		return nil, err
	}
	if payslip == nil {
		return nil, postingdomain.ErrDocumentNotFound
	}

	treasuryAccount, journal, err := s.resolveTreasury(ctx, tc, method)
	if err != nil {
		return nil, err
	}
	chart := s.chart.Get()
	netPayAccount, err := s.resolveAccount(ctx, tc, "net_pay_due", chart.NetPayDuePrefix)
	if err != nil {
		return nil, err
	}

	employeeID := payslip.EmployeeID
	result, err := s.ledger.Create(ctx, tc, ledgerdomain.EntryDraft{
		JournalID:   journal.ID,
		EntryDate:   date,
		Description: "Salary payment " + payslip.Period,
		Currency:    payslip.Currency,
		Status:      ledgerdomain.StatusValidated,
		SourceType:  ledgerdomain.SourceSalaryPayment,
		SourceID:    payslip.ID,
		Lines: []ledgerdomain.LineDraft{
			{AccountID: netPayAccount.ID, ThirdPartyID: &employeeID, Label: "Salary payment " + payslip.Period, Debit: payslip.NetPay()},
			{AccountID: treasuryAccount.ID, Label: "Salary payment " + payslip.Period, Credit: payslip.NetPay()},
		},
	})
	if err != nil {
		return nil, err
	}
	return result.Entry, nil
}

func (s *Service) resolveAccount(ctx context.Context, tc tenant.Context, role, prefix string) (*accountdomain.Account, error) {
	account, err := s.accounts.FindFirstByPrefix(ctx, tc, prefix)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, &postingdomain.AccountResolutionError{Role: role, Prefix: prefix}
	}
	return account, nil
}

func (s *Service) resolveJournal(ctx context.Context, tc tenant.Context, jt journaldomain.JournalType) (*journaldomain.Journal, error) {
	journal, err := s.journals.FindJournalByType(ctx, tc, jt)
	if err != nil {
		return nil, err
	}
	if journal == nil {
		return nil, journaldomain.ErrJournalNotFound
	}
	return journal, nil
}

func (s *Service) resolveTreasury(ctx context.Context, tc tenant.Context, method postingdomain.PaymentMethod) (*accountdomain.Account, *journaldomain.Journal, error) {
	switch method {
	case postingdomain.MethodCash, postingdomain.MethodBank, postingdomain.MethodCheck, postingdomain.MethodMobileMoney:
	default:
		return nil, nil, postingdomain.ErrInvalidMethod
	}

	chart := s.chart.Get()
	if method.UsesCash() {
		account, err := s.resolveAccount(ctx, tc, "cash", chart.CashPrefix)
		if err != nil {
			return nil, nil, err
		}
		journal, err := s.resolveJournal(ctx, tc, journaldomain.JournalCash)
		if err != nil {
			return nil, nil, err
		}
		return account, journal, nil
	}

	account, err := s.resolveAccount(ctx, tc, "bank", chart.BankPrefix)
	if err != nil {
		return nil, nil, err
	}
	journal, err := s.resolveJournal(ctx, tc, journaldomain.JournalBank)
	if err != nil {
		return nil, nil, err
	}
	return account, journal, nil
}

// finish applies the flow's failure policy. The default is to propagate
// errors to the caller so the triggering business operation can roll back;
// a "log" policy swallows the failure after logging it.
func (s *Service) finish(ctx context.Context, tc tenant.Context, flow postingdomain.Flow, docID snowflake.ID, entry *ledgerdomain.Entry, err error) (*ledgerdomain.Entry, error) {
	if err == nil {
		s.obsMetrics.RecordPosting(ctx, string(flow))
		_ = s.auditSvc.Record(ctx, tc, "posting."+string(flow)+"_posted", "entry", entry.ID.String(), map[string]any{
			"document_id": docID.String(),
		})
		return entry, nil
	}

	if s.chart.Get().FailurePolicies[string(flow)] == "log" {
		s.log.Warn("posting failed, continuing per policy",
			zap.String("flow", string(flow)),
			zap.String("company_id", tc.CompanyID.String()),
			zap.String("document_id", docID.String()),
			zap.Error(err),
		)
		return nil, nil
	}
	return nil, err
}

func decimalFromRate(rate float64) decimal.Decimal {
	return decimal.NewFromFloat(rate)
}
