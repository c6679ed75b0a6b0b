// Package records reads and writes apartment and client rows. The grid, the
// inline editor and the intake wizard only see the Source interface; the
// backing store is either the local database or the managed PostgREST backend.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/diewo77/salescrm/internal/models"
)

var (
	// ErrDuplicate reports a unique-key violation (document number or email).
	ErrDuplicate = errors.New("duplicate key")
	ErrNotFound  = errors.New("record not found")
	// ErrNotEditable rejects updates of unknown, boolean or read-only columns.
	ErrNotEditable = errors.New("field is not editable")
)

// Source is the record backend.
type Source interface {
	// Apartments and Clients return every row, newest first.
	Apartments(ctx context.Context) ([]*models.Apartment, error)
	Clients(ctx context.Context) ([]*models.Client, error)
	Client(ctx context.Context, id string) (*models.Client, error)
	// UpdateField sets one column of one row. value is already typed for the
	// column (see catalog.Column.Parse); nil clears it.
	UpdateField(ctx context.Context, entity catalog.Entity, id, field string, value any) error
	InsertClient(ctx context.Context, c *models.Client) error
}

// Rows fetches every row of entity as grid rows.
func Rows(ctx context.Context, src Source, entity catalog.Entity) ([]catalog.Row, error) {
	if entity == catalog.Clients {
		list, err := src.Clients(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]catalog.Row, len(list))
		for i, c := range list {
			rows[i] = c
		}
		return rows, nil
	}
	list, err := src.Apartments(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]catalog.Row, len(list))
	for i, a := range list {
		rows[i] = a
	}
	return rows, nil
}

// checkEditable validates that field can be written through UpdateField.
func checkEditable(entity catalog.Entity, field string) error {
	col, ok := catalog.For(entity).Column(field)
	if !ok || !col.Editable() {
		return fmt.Errorf("%w: %s.%s", ErrNotEditable, entity, field)
	}
	return nil
}

// isDuplicate recognises unique violations from Postgres, SQLite and gorm.
func isDuplicate(msg string) bool {
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
