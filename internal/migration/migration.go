package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	auditdomain "github.com/zinari/zinari/internal/audit/domain"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	partydomain "github.com/zinari/zinari/internal/party/domain"
	postingdomain "github.com/zinari/zinari/internal/posting/domain"
	"gorm.io/gorm"
)

//go:embed sql
var embeddedMigrations embed.FS

const migrationsDir = "sql"

// RunMigrations applies the embedded schema migrations so the ledger is
// usable out of the box on a fresh Postgres database.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate creates the schema through gorm for the non-Postgres dialects
// (mysql, sqlite) where the embedded SQL is not portable.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&companydomain.Company{},
		&companydomain.Branch{},
		&accountdomain.Account{},
		&journaldomain.Journal{},
		&journaldomain.FiscalYear{},
		&partydomain.ThirdParty{},
		&partydomain.CostCenter{},
		&ledgerdomain.Entry{},
		&ledgerdomain.EntryLine{},
		&postingdomain.Invoice{},
		&postingdomain.Payment{},
		&postingdomain.PurchaseOrder{},
		&postingdomain.Payslip{},
		&auditdomain.AuditLog{},
	)
}
