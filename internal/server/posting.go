package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	postingdomain "github.com/zinari/zinari/internal/posting/domain"
)

type createInvoiceRequest struct {
	ThirdPartyID snowflake.ID    `json:"third_party_id"`
	Reference    string          `json:"reference"`
	IssueDate    string          `json:"issue_date"`
	Currency     string          `json:"currency"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
}

type createPaymentRequest struct {
	InvoiceID    snowflake.ID    `json:"invoice_id,omitempty"`
	ThirdPartyID snowflake.ID    `json:"third_party_id"`
	Method       string          `json:"method"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	PaidAt       string          `json:"paid_at"`
}

type createPurchaseOrderRequest struct {
	SupplierID snowflake.ID    `json:"supplier_id"`
	Reference  string          `json:"reference"`
	Currency   string          `json:"currency"`
	NetAmount  decimal.Decimal `json:"net_amount"`
	ReceivedAt *string         `json:"received_at,omitempty"`
}

type createPayslipRequest struct {
	EmployeeID      snowflake.ID    `json:"employee_id"`
	Period          string          `json:"period"`
	Currency        string          `json:"currency"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	EmployeeContrib decimal.Decimal `json:"employee_contrib"`
	EmployerContrib decimal.Decimal `json:"employer_contrib"`
	TaxWithheld     decimal.Decimal `json:"tax_withheld"`
	PayDate         string          `json:"pay_date"`
}

type postSalaryPaymentRequest struct {
	Method string `json:"method"`
	Date   string `json:"date"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	issueDate, err := parseTime(req.IssueDate)
	if err != nil {
		AbortWithError(c, newValidationError("issue_date", "invalid_issue_date", "invalid issue date"))
		return
	}

	tc := tenantFromContext(c)
	invoice := postingdomain.Invoice{
		ID:           s.genID.Generate(),
		CompanyID:    tc.CompanyID,
		ThirdPartyID: req.ThirdPartyID,
		Reference:    strings.TrimSpace(req.Reference),
		IssueDate:    issueDate,
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
		NetAmount:    req.NetAmount,
		TaxAmount:    req.TaxAmount,
		GrossAmount:  req.NetAmount.Add(req.TaxAmount),
		Status:       postingdomain.StatusValidated,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.postingRepo.CreateInvoice(c.Request.Context(), &invoice); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) PostInvoice(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid invoice id"))
		return
	}

	entry, err := s.postingSvc.PostInvoice(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	paidAt, err := parseTime(req.PaidAt)
	if err != nil {
		AbortWithError(c, newValidationError("paid_at", "invalid_paid_at", "invalid payment date"))
		return
	}

	tc := tenantFromContext(c)
	payment := postingdomain.Payment{
		ID:           s.genID.Generate(),
		CompanyID:    tc.CompanyID,
		InvoiceID:    req.InvoiceID,
		ThirdPartyID: req.ThirdPartyID,
		Method:       postingdomain.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.Method))),
		Currency:     strings.ToUpper(strings.TrimSpace(req.Currency)),
		Amount:       req.Amount,
		PaidAt:       paidAt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.postingRepo.CreatePayment(c.Request.Context(), &payment); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payment})
}

func (s *Server) PostPayment(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid payment id"))
		return
	}

	entry, err := s.postingSvc.PostPayment(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) CreatePurchaseOrder(c *gin.Context) {
	var req createPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tc := tenantFromContext(c)
	order := postingdomain.PurchaseOrder{
		ID:         s.genID.Generate(),
		CompanyID:  tc.CompanyID,
		SupplierID: req.SupplierID,
		Reference:  strings.TrimSpace(req.Reference),
		Currency:   strings.ToUpper(strings.TrimSpace(req.Currency)),
		NetAmount:  req.NetAmount,
		Status:     postingdomain.StatusValidated,
		CreatedAt:  time.Now().UTC(),
	}
	if req.ReceivedAt != nil {
		receivedAt, err := parseTime(*req.ReceivedAt)
		if err != nil {
			AbortWithError(c, newValidationError("received_at", "invalid_received_at", "invalid reception date"))
			return
		}
		order.ReceivedAt = &receivedAt
	}
	if err := s.postingRepo.CreatePurchaseOrder(c.Request.Context(), &order); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

func (s *Server) PostPurchaseBill(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid purchase order id"))
		return
	}

	entry, err := s.postingSvc.PostPurchaseBill(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) CreatePayslip(c *gin.Context) {
	var req createPayslipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	payDate, err := parseTime(req.PayDate)
	if err != nil {
		AbortWithError(c, newValidationError("pay_date", "invalid_pay_date", "invalid pay date"))
		return
	}

	tc := tenantFromContext(c)
	payslip := postingdomain.Payslip{
		ID:              s.genID.Generate(),
		CompanyID:       tc.CompanyID,
		EmployeeID:      req.EmployeeID,
		Period:          strings.TrimSpace(req.Period),
		Currency:        strings.ToUpper(strings.TrimSpace(req.Currency)),
		GrossSalary:     req.GrossSalary,
		EmployeeContrib: req.EmployeeContrib,
		EmployerContrib: req.EmployerContrib,
		TaxWithheld:     req.TaxWithheld,
		PayDate:         payDate,
		Status:          postingdomain.StatusValidated,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.postingRepo.CreatePayslip(c.Request.Context(), &payslip); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": payslip})
}

func (s *Server) PostPayroll(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid payslip id"))
		return
	}

	entry, err := s.postingSvc.PostPayroll(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) PostSalaryPayment(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid payslip id"))
		return
	}

	var req postSalaryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseTime(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid payment date"))
		return
	}
	method := postingdomain.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.Method)))

	entry, err := s.postingSvc.PostSalaryPayment(c.Request.Context(), tenantFromContext(c), id, method, date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entry})
}
