package refgen

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	ledgerdomain "github.com/zinari/zinari/internal/ledger/domain"
	"github.com/zinari/zinari/pkg/tenant"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Generator, *gorm.DB, tenant.Context, *snowflake.Node, snowflake.ID) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&journaldomain.Journal{},
		&ledgerdomain.Entry{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	tc := tenant.Context{CompanyID: node.Generate()}

	journalID := node.Generate()
	require.NoError(t, db.Create(&journaldomain.Journal{
		ID: journalID, CompanyID: tc.CompanyID, Code: "VT",
		Label: "Ventes", Type: journaldomain.JournalSale, CreatedAt: time.Now(),
	}).Error)

	return New(db), db, tc, node, journalID
}

func TestNextStartsAtOne(t *testing.T) {
	gen, _, tc, _, journalID := setup(t)

	ref, err := gen.Next(context.Background(), tc, journalID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "VT-2026-0001", ref)
}

func TestNextContinuesFromHighest(t *testing.T) {
	gen, db, tc, node, journalID := setup(t)

	for _, ref := range []string{"VT-2026-0001", "VT-2026-0007", "VT-2026-0003"} {
		require.NoError(t, db.Create(&ledgerdomain.Entry{
			ID:        node.Generate(),
			CompanyID: tc.CompanyID,
			JournalID: journalID,
			Reference: ref,
			EntryDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Currency:  "XOF",
			Status:    ledgerdomain.StatusProvisional,
		}).Error)
	}

	ref, err := gen.Next(context.Background(), tc, journalID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "VT-2026-0008", ref)
}

func TestNextPastFourDigitSequences(t *testing.T) {
	gen, db, tc, node, journalID := setup(t)

	// "VT-2026-10000" sorts before "VT-2026-9999" lexicographically; the
	// generator must still continue from the numerically highest one.
	for _, ref := range []string{"VT-2026-9999", "VT-2026-10000"} {
		require.NoError(t, db.Create(&ledgerdomain.Entry{
			ID:        node.Generate(),
			CompanyID: tc.CompanyID,
			JournalID: journalID,
			Reference: ref,
			EntryDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Currency:  "XOF",
			Status:    ledgerdomain.StatusProvisional,
		}).Error)
	}

	ref, err := gen.Next(context.Background(), tc, journalID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "VT-2026-10001", ref)
}

func TestNextScopesByYear(t *testing.T) {
	gen, db, tc, node, journalID := setup(t)

	require.NoError(t, db.Create(&ledgerdomain.Entry{
		ID:        node.Generate(),
		CompanyID: tc.CompanyID,
		JournalID: journalID,
		Reference: "VT-2025-0042",
		EntryDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Currency:  "XOF",
		Status:    ledgerdomain.StatusProvisional,
	}).Error)

	ref, err := gen.Next(context.Background(), tc, journalID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "VT-2026-0001", ref)
}

func TestNextUnknownJournal(t *testing.T) {
	gen, _, tc, node, _ := setup(t)

	_, err := gen.Next(context.Background(), tc, node.Generate(), 2026)
	assert.ErrorIs(t, err, journaldomain.ErrJournalNotFound)
}
