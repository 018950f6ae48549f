package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zinari/zinari/internal/account"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	"github.com/zinari/zinari/internal/audit"
	auditdomain "github.com/zinari/zinari/internal/audit/domain"
	"github.com/zinari/zinari/internal/company"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	"github.com/zinari/zinari/internal/config"
	"github.com/zinari/zinari/internal/journal"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	"github.com/zinari/zinari/internal/ledger"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	"github.com/zinari/zinari/internal/party"
	partyrepository "github.com/zinari/zinari/internal/party/repository"
	"github.com/zinari/zinari/internal/posting"
	postingdomain "github.com/zinari/zinari/internal/posting/domain"
	postingrepository "github.com/zinari/zinari/internal/posting/repository"
	"github.com/zinari/zinari/internal/statement"
	statementdomain "github.com/zinari/zinari/internal/statement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	company.Module,
	account.Module,
	journal.Module,
	party.Module,
	audit.Module,
	ledger.Module,
	posting.Module,
	statement.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	companySvc   companydomain.Service
	accountSvc   accountdomain.Service
	journalSvc   journaldomain.Service
	partyRepo    partyrepository.Repository
	ledgerSvc    ledgerdomain.Service
	postingSvc   postingdomain.Service
	postingRepo  postingrepository.Repository
	statementSvc statementdomain.Service
	auditSvc     auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	CompanySvc   companydomain.Service
	AccountSvc   accountdomain.Service
	JournalSvc   journaldomain.Service
	PartyRepo    partyrepository.Repository
	LedgerSvc    ledgerdomain.Service
	PostingSvc   postingdomain.Service
	PostingRepo  postingrepository.Repository
	StatementSvc statementdomain.Service
	AuditSvc     auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		companySvc:   p.CompanySvc,
		accountSvc:   p.AccountSvc,
		journalSvc:   p.JournalSvc,
		partyRepo:    p.PartyRepo,
		ledgerSvc:    p.LedgerSvc,
		postingSvc:   p.PostingSvc,
		postingRepo:  p.PostingRepo,
		statementSvc: p.StatementSvc,
		auditSvc:     p.AuditSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/companies", s.CreateCompany)
	v1.GET("/companies", s.ListCompanies)
	v1.GET("/companies/:id", s.GetCompany)

	scoped := v1.Group("", TenantMiddleware())

	scoped.POST("/accounts", s.CreateAccount)
	scoped.GET("/accounts", s.ListAccounts)
	scoped.GET("/accounts/:id", s.GetAccount)
	scoped.PATCH("/accounts/:id", s.UpdateAccount)
	scoped.DELETE("/accounts/:id", s.DeleteAccount)
	scoped.POST("/accounts/import", s.ImportAccounts)

	scoped.POST("/journals", s.CreateJournal)
	scoped.GET("/journals", s.ListJournals)
	scoped.POST("/fiscal-years", s.CreateFiscalYear)
	scoped.GET("/fiscal-years", s.ListFiscalYears)
	scoped.POST("/fiscal-years/:id/close", s.CloseFiscalYear)

	scoped.POST("/third-parties", s.CreateThirdParty)
	scoped.GET("/third-parties", s.ListThirdParties)
	scoped.POST("/cost-centers", s.CreateCostCenter)
	scoped.GET("/cost-centers", s.ListCostCenters)

	scoped.POST("/entries", s.CreateEntry)
	scoped.GET("/entries", s.ListEntries)
	scoped.GET("/entries/:id", s.GetEntry)
	scoped.PATCH("/entries/:id", s.UpdateEntry)
	scoped.POST("/entries/:id/validate", s.ValidateEntry)
	scoped.DELETE("/entries/:id", s.SoftDeleteEntry)
	scoped.POST("/entries/:id/restore", s.RestoreEntry)
	scoped.DELETE("/entries/:id/purge", s.PurgeEntry)

	scoped.POST("/invoices", s.CreateInvoice)
	scoped.POST("/invoices/:id/post", s.PostInvoice)
	scoped.POST("/payments", s.CreatePayment)
	scoped.POST("/payments/:id/post", s.PostPayment)
	scoped.POST("/purchase-orders", s.CreatePurchaseOrder)
	scoped.POST("/purchase-orders/:id/post", s.PostPurchaseBill)
	scoped.POST("/payslips", s.CreatePayslip)
	scoped.POST("/payslips/:id/post", s.PostPayroll)
	scoped.POST("/payslips/:id/pay", s.PostSalaryPayment)

	scoped.GET("/reports/trial-balance", s.GetTrialBalance)
	scoped.GET("/reports/balance-sheet", s.GetBalanceSheet)
	scoped.GET("/reports/income-statement", s.GetIncomeStatement)
	scoped.GET("/reports/vat", s.GetVatReport)
	scoped.GET("/reports/cash-flow", s.GetCashFlow)
	scoped.GET("/reports/equity-changes", s.GetEquityChanges)
	scoped.GET("/reports/six-column-balance", s.GetSixColumnBalance)
	scoped.GET("/reports/general-ledger", s.GetGeneralLedger)
	scoped.GET("/reports/auxiliary-journal", s.GetAuxiliaryJournal)

	scoped.GET("/audit-logs", s.ListAuditLogs)
}
