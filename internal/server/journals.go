package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
)

type createJournalRequest struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type createFiscalYearRequest struct {
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) CreateJournal(c *gin.Context) {
	var req createJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.journalSvc.CreateJournal(c.Request.Context(), tenantFromContext(c), journaldomain.CreateJournalRequest{
		Code:  strings.TrimSpace(req.Code),
		Label: strings.TrimSpace(req.Label),
		Type:  journaldomain.JournalType(strings.ToUpper(strings.TrimSpace(req.Type))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListJournals(c *gin.Context) {
	resp, err := s.journalSvc.ListJournals(c.Request.Context(), tenantFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateFiscalYear(c *gin.Context) {
	var req createFiscalYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	start, err := parseTime(req.StartDate)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start date"))
		return
	}
	end, err := parseTime(req.EndDate)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end date"))
		return
	}

	resp, err := s.journalSvc.CreateFiscalYear(c.Request.Context(), tenantFromContext(c), journaldomain.CreateFiscalYearRequest{
		Label:     strings.TrimSpace(req.Label),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFiscalYears(c *gin.Context) {
	resp, err := s.journalSvc.ListFiscalYears(c.Request.Context(), tenantFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CloseFiscalYear(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid fiscal year id"))
		return
	}

	resp, err := s.journalSvc.CloseFiscalYear(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
