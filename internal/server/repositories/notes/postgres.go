// Package notes stores shared notes in PostgreSQL.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the note with the given id, or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Note, error) {
	query :=
		`SELECT id, title_text, content, plain_text, date_string, iso_date
		 FROM shared_notes WHERE id = $1`

	n := &models.Note{Shared: true}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&n.ID, &n.TitleText, &n.Content, &n.PlainText, &n.DateString, &n.ISODate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM shared_notes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Insert stores note under its id. An occupied id yields
// common.ErrAlreadyExists and leaves the stored note untouched.
func (r *PostgresRepository) Insert(ctx context.Context, note *models.Note) error {
	query :=
		`INSERT INTO shared_notes (id, title_text, content, plain_text, date_string, iso_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		note.ID, note.TitleText, note.Content, note.PlainText, note.DateString, note.ISODate)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}
