package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
)

type createAccountRequest struct {
	Code          string `json:"code"`
	Label         string `json:"label"`
	Type          string `json:"type,omitempty"`
	NormalBalance string `json:"normal_balance,omitempty"`
}

type updateAccountRequest struct {
	Label         *string `json:"label,omitempty"`
	Type          *string `json:"type,omitempty"`
	NormalBalance *string `json:"normal_balance,omitempty"`
}

type importAccountsRequest struct {
	Rows []accountdomain.ImportRow `json:"rows"`
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.accountSvc.Create(c.Request.Context(), tenantFromContext(c), accountdomain.CreateAccountRequest{
		Code:          strings.TrimSpace(req.Code),
		Label:         strings.TrimSpace(req.Label),
		Type:          accountdomain.AccountType(strings.TrimSpace(req.Type)),
		NormalBalance: accountdomain.BalanceSide(strings.TrimSpace(req.NormalBalance)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateAccount(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid account id"))
		return
	}

	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := accountdomain.UpdateAccountRequest{}
	if req.Label != nil {
		update.Label = strings.TrimSpace(*req.Label)
	}
	if req.Type != nil {
		update.Type = accountdomain.AccountType(strings.TrimSpace(*req.Type))
	}
	if req.NormalBalance != nil {
		update.NormalBalance = accountdomain.BalanceSide(strings.TrimSpace(*req.NormalBalance))
	}

	resp, err := s.accountSvc.Update(c.Request.Context(), tenantFromContext(c), id, update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAccount(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid account id"))
		return
	}

	resp, err := s.accountSvc.Get(c.Request.Context(), tenantFromContext(c), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAccounts(c *gin.Context) {
	var query struct {
		Class  string `form:"class"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	class, err := parseOptionalInt(query.Class)
	if err != nil {
		AbortWithError(c, newValidationError("class", "invalid_class", "invalid class"))
		return
	}

	filter := accountdomain.ListRequest{Search: strings.TrimSpace(query.Search)}
	if class != nil {
		filter.Class = *class
	}

	resp, err := s.accountSvc.List(c.Request.Context(), tenantFromContext(c), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteAccount(c *gin.Context) {
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid account id"))
		return
	}

	if err := s.accountSvc.Delete(c.Request.Context(), tenantFromContext(c), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ImportAccounts(c *gin.Context) {
	var req importAccountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Rows) == 0 {
		AbortWithError(c, newValidationError("rows", "invalid_rows", "rows are required"))
		return
	}

	resp, err := s.accountSvc.BulkImport(c.Request.Context(), tenantFromContext(c), req.Rows)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
