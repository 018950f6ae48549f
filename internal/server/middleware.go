package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/zap"
)

const (
	headerCompanyID = "X-Company-ID"
	headerBranchID  = "X-Branch-ID"

	tenantContextKey = "tenant.context"
)

// TenantMiddleware resolves the tenant scope from request headers. Every
// scoped route requires a company; the branch is optional.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyRaw := strings.TrimSpace(c.GetHeader(headerCompanyID))
		if companyRaw == "" {
			AbortWithError(c, newValidationError("company_id", "missing_company", "missing X-Company-ID header"))
			return
		}
		companyID, err := snowflake.ParseString(companyRaw)
		if err != nil || companyID == 0 {
			AbortWithError(c, newValidationError("company_id", "invalid_company", "invalid X-Company-ID header"))
			return
		}

		tc := tenant.Context{CompanyID: companyID}
		if branchRaw := strings.TrimSpace(c.GetHeader(headerBranchID)); branchRaw != "" {
			branchID, err := snowflake.ParseString(branchRaw)
			if err != nil || branchID == 0 {
				AbortWithError(c, newValidationError("branch_id", "invalid_branch", "invalid X-Branch-ID header"))
				return
			}
			tc.BranchID = branchID
		}

		c.Set(tenantContextKey, tc)
		c.Next()
	}
}

func tenantFromContext(c *gin.Context) tenant.Context {
	if v, ok := c.Get(tenantContextKey); ok {
		if tc, ok := v.(tenant.Context); ok {
			return tc
		}
	}
	return tenant.Context{}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if tc := tenantFromContext(c); tc.CompanyID != 0 {
			fields = append(fields, zap.String("company_id", tc.CompanyID.String()))
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			fields = append(fields, zap.Error(lastErr.Err))
		}

		if c.Writer.Status() >= 500 {
			log.Error("request", fields...)
			return
		}
		log.Info("request", fields...)
	}
}
