// Package refgen derives sequential document references per journal and year,
// in the form {journalCode}-{year}-{sequence} with a four digit sequence.
package refgen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	journaldomain "github.com/zinari/zinari/internal/journal/domain"
	"github.com/zinari/zinari/pkg/tenant"
	"gorm.io/gorm"
)

type Generator struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Generator {
	return &Generator{db: db}
}

// Next returns the next reference for the journal and year. It continues from
// the highest existing reference sharing the prefix and starts at 1 when none
// exists. The caller owns the uniqueness guarantee: the entries table enforces
// a unique (journal, year, reference) index and creation retries on conflict.
func (g *Generator) Next(ctx context.Context, tc tenant.Context, journalID snowflake.ID, year int) (string, error) {
	var journal journaldomain.Journal
	err := g.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", tc.CompanyID, journalID).
		Limit(1).
		Find(&journal).Error
	if err != nil {
		return "", err
	}
	if journal.ID == 0 {
		return "", journaldomain.ErrJournalNotFound
	}

	prefix := fmt.Sprintf("%s-%d-", journal.Code, year)

	// Longest reference first so a five digit sequence outranks every four
	// digit one; plain lexicographic order would stall at 9999.
	var last string
	err = g.db.WithContext(ctx).Raw(
		`SELECT reference FROM entries
		 WHERE journal_id = ? AND reference LIKE ?
		 ORDER BY LENGTH(reference) DESC, reference DESC
		 LIMIT 1`,
		journalID,
		prefix+"%",
	).Scan(&last).Error
	if err != nil {
		return "", err
	}

	sequence := 1
	if last != "" {
		raw := strings.TrimPrefix(last, prefix)
		if parsed, err := strconv.Atoi(raw); err == nil {
			sequence = parsed + 1
		}
	}

	return fmt.Sprintf("%s%04d", prefix, sequence), nil
}
