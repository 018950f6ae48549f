package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zinari/zinari/internal/clock"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	journalrepository "github.com/zinari/zinari/internal/journal/repository"
	"github.com/zinari/zinari/pkg/tenant"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newService(t *testing.T) (journaldomain.Service, *clock.FakeClock, tenant.Context) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&journaldomain.Journal{},
		&journaldomain.FiscalYear{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fc := clock.NewFakeClock(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		Repo:  journalrepository.NewRepository(db),
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: fc,
	})
	return svc, fc, tenant.Context{CompanyID: node.Generate()}
}

func TestCreateJournal(t *testing.T) {
	svc, _, tc := newService(t)
	ctx := context.Background()

	journal, err := svc.CreateJournal(ctx, tc, journaldomain.CreateJournalRequest{
		Code: " vt ", Label: "Ventes", Type: journaldomain.JournalSale,
	})
	require.NoError(t, err)
	assert.Equal(t, "VT", journal.Code)
	assert.Equal(t, journaldomain.JournalSale, journal.Type)

	_, err = svc.CreateJournal(ctx, tc, journaldomain.CreateJournalRequest{
		Code: "VT", Label: "Doublon", Type: journaldomain.JournalSale,
	})
	assert.ErrorIs(t, err, journaldomain.ErrCodeExists)

	_, err = svc.CreateJournal(ctx, tc, journaldomain.CreateJournalRequest{
		Code: "XX", Label: "Inconnu", Type: "WAREHOUSE",
	})
	assert.ErrorIs(t, err, journaldomain.ErrInvalidType)
}

func TestCreateFiscalYearValidatesPeriod(t *testing.T) {
	svc, _, tc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateFiscalYear(ctx, tc, journaldomain.CreateFiscalYearRequest{
		Label:     "inverse",
		StartDate: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, journaldomain.ErrInvalidPeriod)

	fy, err := svc.CreateFiscalYear(ctx, tc, journaldomain.CreateFiscalYearRequest{
		Label:     "2026",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.False(t, fy.Closed)
}

func TestCloseFiscalYearIsOneWay(t *testing.T) {
	svc, fc, tc := newService(t)
	ctx := context.Background()

	fy, err := svc.CreateFiscalYear(ctx, tc, journaldomain.CreateFiscalYearRequest{
		Label:     "2026",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	closed, err := svc.CloseFiscalYear(ctx, tc, fy.ID)
	require.NoError(t, err)
	assert.True(t, closed.Closed)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, fc.Now(), closed.ClosedAt.UTC())

	_, err = svc.CloseFiscalYear(ctx, tc, fy.ID)
	assert.ErrorIs(t, err, journaldomain.ErrAlreadyClosed)
}

func TestCloseFiscalYearNotFound(t *testing.T) {
	svc, _, tc := newService(t)

	_, err := svc.CloseFiscalYear(context.Background(), tc, snowflake.ID(42))
	assert.ErrorIs(t, err, journaldomain.ErrFiscalYearNotFound)
}
