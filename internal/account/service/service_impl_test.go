package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	accountdomain "github.com/zinari/zinari/internal/account/domain"
	accountrepository "github.com/zinari/zinari/internal/account/repository"
	"github.com/zinari/zinari/internal/clock"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T) (accountdomain.Service, *gorm.DB, tenant.Context, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&accountdomain.Account{},
		&ledgerdomain.EntryLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		Repo:  accountrepository.NewRepository(db),
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
	})
	tc := tenant.Context{CompanyID: node.Generate()}
	return svc, db, tc, node
}

func TestCreateDerivesClassification(t *testing.T) {
	svc, _, tc, _ := newService(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{
		Code:  "411000",
		Label: "Clients",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, account.Class)
	assert.Equal(t, accountdomain.TypeAsset, account.Type)
	assert.Equal(t, accountdomain.SideDebit, account.NormalBalance)
	assert.Equal(t, 1, account.Level)
	assert.Nil(t, account.ParentID)

	expense, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{
		Code:  "601000",
		Label: "Achats",
	})
	require.NoError(t, err)
	assert.Equal(t, accountdomain.TypeExpense, expense.Type)
	assert.Equal(t, accountdomain.SideDebit, expense.NormalBalance)
}

func TestCreateAttachesParent(t *testing.T) {
	svc, _, tc, _ := newService(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "411", Label: "Clients"})
	require.NoError(t, err)

	child, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "411100", Label: "Clients locaux"})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Equal(t, 2, child.Level)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _, tc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "", Label: "x"})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidCode)

	_, err = svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "411000", Label: "  "})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidLabel)

	_, err = svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "911000", Label: "x"})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidAccountClass)
}

func TestCreateDuplicateCode(t *testing.T) {
	svc, _, tc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "411000", Label: "Clients"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "411000", Label: "Clients bis"})
	assert.ErrorIs(t, err, accountdomain.ErrCodeExists)
}

func TestBulkImport(t *testing.T) {
	svc, _, tc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "521000", Label: "Banque"})
	require.NoError(t, err)

	result, err := svc.BulkImport(ctx, tc, []accountdomain.ImportRow{
		{Code: "411100", Label: "Clients locaux"}, // child listed before parent
		{Code: "411", Label: "Clients"},
		{Code: "521000", Label: "Banque"}, // already exists
		{Code: "911000", Label: "Hors plan"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "911000", result.Errors[0].Code)

	// Shortest-first ordering made "411" the parent of "411100".
	accounts, err := svc.List(ctx, tc, accountdomain.ListRequest{Class: 4})
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "411", accounts[0].Code)
	require.NotNil(t, accounts[1].ParentID)
	assert.Equal(t, accounts[0].ID, *accounts[1].ParentID)
}

func TestDeleteReferencedAccount(t *testing.T) {
	svc, db, tc, node := newService(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "701000", Label: "Ventes"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&ledgerdomain.EntryLine{
		ID:        node.Generate(),
		EntryID:   node.Generate(),
		AccountID: account.ID,
		Credit:    decimal.NewFromInt(100),
		CreatedAt: time.Now(),
	}).Error)

	err = svc.Delete(ctx, tc, account.ID)
	assert.ErrorIs(t, err, accountdomain.ErrReferenced)
}

func TestDeleteUnreferencedAccount(t *testing.T) {
	svc, _, tc, _ := newService(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, tc, accountdomain.CreateAccountRequest{Code: "701000", Label: "Ventes"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tc, account.ID))

	_, err = svc.Get(ctx, tc, account.ID)
	assert.ErrorIs(t, err, accountdomain.ErrNotFound)
}
