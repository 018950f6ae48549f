package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	partydomain "github.com/zinari/zinari/internal/party/domain"
)

type createThirdPartyRequest struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	VatSubject bool   `json:"vat_subject"`
}

type createCostCenterRequest struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func (s *Server) CreateThirdParty(c *gin.Context) {
	var req createThirdPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	kind := partydomain.PartyKind(strings.ToUpper(strings.TrimSpace(req.Kind)))
	switch kind {
	case partydomain.KindClient, partydomain.KindSupplier, partydomain.KindEmployee:
	default:
		AbortWithError(c, partydomain.ErrInvalidKind)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		AbortWithError(c, partydomain.ErrInvalidName)
		return
	}

	tc := tenantFromContext(c)
	party := partydomain.ThirdParty{
		ID:         s.genID.Generate(),
		CompanyID:  tc.CompanyID,
		Kind:       kind,
		Name:       name,
		VatSubject: req.VatSubject,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.partyRepo.CreateThirdParty(c.Request.Context(), &party); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": party})
}

func (s *Server) ListThirdParties(c *gin.Context) {
	kind := partydomain.PartyKind(strings.ToUpper(strings.TrimSpace(c.Query("kind"))))

	resp, err := s.partyRepo.ListThirdParties(c.Request.Context(), tenantFromContext(c), kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateCostCenter(c *gin.Context) {
	var req createCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	code := strings.TrimSpace(req.Code)
	label := strings.TrimSpace(req.Label)
	if code == "" || label == "" {
		AbortWithError(c, newValidationError("code", "invalid_cost_center", "code and label are required"))
		return
	}

	tc := tenantFromContext(c)
	cc := partydomain.CostCenter{
		ID:        s.genID.Generate(),
		CompanyID: tc.CompanyID,
		Code:      code,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.partyRepo.CreateCostCenter(c.Request.Context(), &cc); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cc})
}

func (s *Server) ListCostCenters(c *gin.Context) {
	resp, err := s.partyRepo.ListCostCenters(c.Request.Context(), tenantFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
