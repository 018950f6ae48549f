package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	statementdomain "github.com/zinari/zinari/internal/statement/domain"
)

func (s *Server) reportScope(c *gin.Context) (snowflake.ID, statementdomain.Options, bool) {
	fiscalYearID, err := parseSnowflakeID(c.Query("fiscal_year_id"))
	if err != nil {
		AbortWithError(c, newValidationError("fiscal_year_id", "invalid_fiscal_year_id", "invalid fiscal year id"))
		return 0, statementdomain.Options{}, false
	}

	local, err := parseOptionalBool(c.Query("local_currency"))
	if err != nil {
		AbortWithError(c, newValidationError("local_currency", "invalid_local_currency", "invalid local currency flag"))
		return 0, statementdomain.Options{}, false
	}

	opts := statementdomain.Options{}
	if local != nil {
		opts.UseLocalCurrency = *local
	}
	return fiscalYearID, opts, true
}

func (s *Server) GetTrialBalance(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.TrialBalance(c.Request.Context(), tenantFromContext(c), fiscalYearID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBalanceSheet(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.BalanceSheet(c.Request.Context(), tenantFromContext(c), fiscalYearID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetIncomeStatement(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.IncomeStatement(c.Request.Context(), tenantFromContext(c), fiscalYearID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetVatReport(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.VatReport(c.Request.Context(), tenantFromContext(c), fiscalYearID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCashFlow(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.CashFlow(c.Request.Context(), tenantFromContext(c), fiscalYearID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEquityChanges(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.EquityChanges(c.Request.Context(), tenantFromContext(c), fiscalYearID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSixColumnBalance(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	resp, err := s.statementSvc.SixColumnBalance(c.Request.Context(), tenantFromContext(c), fiscalYearID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetGeneralLedger(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	accountID, err := parseSnowflakeID(c.Query("account_id"))
	if err != nil {
		AbortWithError(c, newValidationError("account_id", "invalid_account_id", "invalid account id"))
		return
	}

	resp, err := s.statementSvc.GeneralLedger(c.Request.Context(), tenantFromContext(c), accountID, fiscalYearID, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAuxiliaryJournal(c *gin.Context) {
	fiscalYearID, opts, ok := s.reportScope(c)
	if !ok {
		return
	}

	journalCode := strings.ToUpper(strings.TrimSpace(c.Query("journal_code")))
	if journalCode == "" {
		AbortWithError(c, newValidationError("journal_code", "invalid_journal_code", "journal code is required"))
		return
	}

	month := 0
	if parsed, err := parseOptionalInt(c.Query("month")); err != nil || (parsed != nil && (*parsed < 1 || *parsed > 12)) {
		AbortWithError(c, newValidationError("month", "invalid_month", "month must be between 1 and 12"))
		return
	} else if parsed != nil {
		month = *parsed
	}

	resp, err := s.statementSvc.AuxiliaryJournal(c.Request.Context(), tenantFromContext(c), journalCode, fiscalYearID, month, opts)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
