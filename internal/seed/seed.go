package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	companydomain "github.com/zinari/zinari/internal/company/domain"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	"gorm.io/gorm"
)

const (
	defaultCompanyName = "Main"
	defaultCurrency    = "XOF"
)

// seedAccounts is a minimal SYSCOHADA chart: enough accounts for the
// automated postings and every statement classification branch.
var seedAccounts = []struct {
	code  string
	label string
}{
	{"101000", "Capital social"},
	{"110000", "Réserves"},
	{"120000", "Report à nouveau"},
	{"130000", "Résultat net de l'exercice"},
	{"162000", "Emprunts et dettes"},
	{"244000", "Matériel et mobilier"},
	{"311000", "Marchandises"},
	{"401000", "Fournisseurs"},
	{"411000", "Clients"},
	{"422000", "Personnel, rémunérations dues"},
	{"431000", "Sécurité sociale"},
	{"443000", "État, TVA facturée"},
	{"445000", "État, TVA récupérable"},
	{"447000", "État, impôts retenus à la source"},
	{"521000", "Banques"},
	{"571000", "Caisse"},
	{"601000", "Achats de marchandises"},
	{"661000", "Rémunérations directes"},
	{"664000", "Charges sociales"},
	{"701000", "Ventes de marchandises"},
}

var seedJournals = []struct {
	code  string
	label string
	typ   journaldomain.JournalType
}{
	{"VT", "Ventes", journaldomain.JournalSale},
	{"AC", "Achats", journaldomain.JournalPurchase},
	{"BQ", "Banque", journaldomain.JournalBank},
	{"CA", "Caisse", journaldomain.JournalCash},
	{"PA", "Paie", journaldomain.JournalPayroll},
	{"OD", "Opérations diverses", journaldomain.JournalOD},
	{journaldomain.OpeningJournalCode, "Balance d'ouverture", journaldomain.JournalOD},
}

// EnsureDefaultCompany seeds the default company, its chart of accounts,
// journals and the current fiscal year for startup bootstrap.
func EnsureDefaultCompany(db *gorm.DB) error {
	return ensure(db, 0)
}

// EnsureDefaultCompanyWithID seeds the same data under a fixed company id,
// used when callers pin the tenant through configuration.
func EnsureDefaultCompanyWithID(db *gorm.DB, id snowflake.ID) error {
	return ensure(db, id)
}

func ensure(db *gorm.DB, id snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := ensureCompanyTx(ctx, tx, node, id)
		if err != nil {
			return err
		}
		if err := ensureAccountsTx(ctx, tx, node, company.ID); err != nil {
			return err
		}
		if err := ensureJournalsTx(ctx, tx, node, company.ID); err != nil {
			return err
		}
		return ensureFiscalYearTx(ctx, tx, node, company.ID)
	})
}

func ensureCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, id snowflake.ID) (*companydomain.Company, error) {
	var company companydomain.Company
	q := tx.WithContext(ctx)
	if id != 0 {
		q = q.Where("id = ?", id)
	} else {
		q = q.Where("name = ?", defaultCompanyName)
	}
	err := q.First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if id == 0 {
		id = node.Generate()
	}
	now := time.Now().UTC()
	company = companydomain.Company{
		ID:        id,
		Name:      defaultCompanyName,
		Currency:  defaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func ensureAccountsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	now := time.Now().UTC()
	for _, a := range seedAccounts {
		var existing accountdomain.Account
		err := tx.WithContext(ctx).
			Where("company_id = ? AND code = ?", companyID, a.code).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		class, err := accountdomain.ClassOf(a.code)
		if err != nil {
			return err
		}
		accountType := accountdomain.DeriveType(a.code, class)
		account := accountdomain.Account{
			ID:            node.Generate(),
			CompanyID:     companyID,
			Code:          a.code,
			Label:         a.label,
			Class:         class,
			Type:          accountType,
			NormalBalance: accountdomain.DeriveNormalBalance(accountType),
			Level:         1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.WithContext(ctx).Create(&account).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureJournalsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	now := time.Now().UTC()
	for _, j := range seedJournals {
		var existing journaldomain.Journal
		err := tx.WithContext(ctx).
			Where("company_id = ? AND code = ?", companyID, j.code).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		journal := journaldomain.Journal{
			ID:        node.Generate(),
			CompanyID: companyID,
			Code:      j.code,
			Label:     j.label,
			Type:      j.typ,
			CreatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&journal).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureFiscalYearTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, companyID snowflake.ID) error {
	now := time.Now().UTC()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)

	var existing journaldomain.FiscalYear
	err := tx.WithContext(ctx).
		Where("company_id = ? AND start_date <= ? AND end_date >= ?", companyID, now, now).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	fy := journaldomain.FiscalYear{
		ID:        node.Generate(),
		CompanyID: companyID,
		Label:     start.Format("2006"),
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
	}
	return tx.WithContext(ctx).Create(&fy).Error
}
