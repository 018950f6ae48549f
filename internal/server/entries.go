package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
)

type entryLineRequest struct {
	AccountID    snowflake.ID    `json:"account_id"`
	ThirdPartyID *snowflake.ID   `json:"third_party_id,omitempty"`
	CostCenterID *snowflake.ID   `json:"cost_center_id,omitempty"`
	Label        string          `json:"label,omitempty"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
}

type createEntryRequest struct {
	JournalID    snowflake.ID     `json:"journal_id"`
	FiscalYearID snowflake.ID     `json:"fiscal_year_id,omitempty"`
	Reference    string           `json:"reference,omitempty"`
	EntryDate    string           `json:"entry_date"`
	Description  string           `json:"description,omitempty"`
	Currency     string           `json:"currency"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate,omitempty"`
	Status       string           `json:"status,omitempty"`
	Lines        []entryLineRequest `json:"lines"`
}

type updateEntryRequest struct {
	EntryDate    *string            `json:"entry_date,omitempty"`
	Description  *string            `json:"description,omitempty"`
	Currency     *string            `json:"currency,omitempty"`
	ExchangeRate *decimal.Decimal   `json:"exchange_rate,omitempty"`
	JournalID    *snowflake.ID      `json:"journal_id,omitempty"`
	FiscalYearID *snowflake.ID      `json:"fiscal_year_id,omitempty"`
	Lines        []entryLineRequest `json:"lines,omitempty"`
}

func toLineDrafts(lines []entryLineRequest) []ledgerdomain.LineDraft {
	drafts := make([]ledgerdomain.LineDraft, 0, len(lines))
	for _, l := range lines {
		drafts = append(drafts, ledgerdomain.LineDraft{
			AccountID:    l.AccountID,
			ThirdPartyID: l.ThirdPartyID,
			CostCenterID: l.CostCenterID,
			Label:        strings.TrimSpace(l.Label),
			Debit:        l.Debit,
			Credit:       l.Credit,
		})
	}
	return drafts
}

func (s *Server) CreateEntry(c *gin.Context) {
	var req createEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entryDate, err := parseTime(req.EntryDate)
	if err != nil {
		AbortWithError(c, newValidationError("entry_date", "invalid_entry_date", "invalid entry date"))
		return
	}

	draft := ledgerdomain.EntryDraft{
		JournalID:    req.JournalID,
		FiscalYearID: req.FiscalYearID,
		Reference:    strings.TrimSpace(req.Reference),
		EntryDate:    entryDate,
		Description:  strings.TrimSpace(req.Description),
		Currency:     strings.TrimSpace(req.Currency),
		Status:       ledgerdomain.EntryStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
		SourceType:   ledgerdomain.SourceManual,
		Lines:        toLineDrafts(req.Lines),
	}
	if req.ExchangeRate != nil {
		draft.ExchangeRate = *req.ExchangeRate
	}

	resp, err := s.ledgerSvc.Create(c.Request.Context(), tenantFromContext(c), draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Entry, "warnings": resp.Warnings})
}

func (s *Server) UpdateEntry(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid entry id"))
		return
	}

	var req updateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	patch := ledgerdomain.EntryPatch{
		Description:  trimStringPtr(req.Description),
		Currency:     trimStringPtr(req.Currency),
		ExchangeRate: req.ExchangeRate,
		JournalID:    req.JournalID,
		FiscalYearID: req.FiscalYearID,
	}
	if req.EntryDate != nil {
		entryDate, err := parseTime(*req.EntryDate)
		if err != nil {
			AbortWithError(c, newValidationError("entry_date", "invalid_entry_date", "invalid entry date"))
			return
		}
		patch.EntryDate = &entryDate
	}
	if req.Lines != nil {
		patch.Lines = toLineDrafts(req.Lines)
	}

	resp, err := s.ledgerSvc.Update(c.Request.Context(), tenantFromContext(c), id, patch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ValidateEntry(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid entry id"))
		return
	}

	resp, err := s.ledgerSvc.Validate(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) SoftDeleteEntry(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid entry id"))
		return
	}

	if err := s.ledgerSvc.SoftDelete(c.Request.Context(), tenantFromContext(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) RestoreEntry(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid entry id"))
		return
	}

	resp, err := s.ledgerSvc.Restore(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PurgeEntry(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid entry id"))
		return
	}

	if err := s.ledgerSvc.Purge(c.Request.Context(), tenantFromContext(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"purged": true}})
}

func (s *Server) GetEntry(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid entry id"))
		return
	}

	resp, err := s.ledgerSvc.Get(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListEntries(c *gin.Context) {
	var query struct {
		JournalID    string `form:"journal_id"`
		FiscalYearID string `form:"fiscal_year_id"`
		Status       string `form:"status"`
		Trashed      string `form:"trashed"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	journalID, err := parseOptionalSnowflakeID(query.JournalID)
	if err != nil {
		AbortWithError(c, newValidationError("journal_id", "invalid_journal_id", "invalid journal id"))
		return
	}
	fiscalYearID, err := parseOptionalSnowflakeID(query.FiscalYearID)
	if err != nil {
		AbortWithError(c, newValidationError("fiscal_year_id", "invalid_fiscal_year_id", "invalid fiscal year id"))
		return
	}
	trashed, err := parseOptionalBool(query.Trashed)
	if err != nil {
		AbortWithError(c, newValidationError("trashed", "invalid_trashed", "invalid trashed"))
		return
	}

	filter := ledgerdomain.ListFilter{
		Status: ledgerdomain.EntryStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
	}
	if journalID != nil {
		filter.JournalID = *journalID
	}
	if fiscalYearID != nil {
		filter.FiscalYearID = *fiscalYearID
	}
	if trashed != nil {
		filter.Trashed = *trashed
	}

	resp, err := s.ledgerSvc.List(c.Request.Context(), tenantFromContext(c), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
