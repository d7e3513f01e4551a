package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
)

const noteColumns = `id, title_text, content, plain_text, date_string, iso_date, shared`

const nextSeq = `(SELECT COALESCE(MAX(seq), 0) + 1 FROM notes)`

var orderBy = map[models.SortField]string{
	models.SortByTitle:   "title_text",
	models.SortByDate:    "iso_date",
	models.SortByContent: "plain_text",
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		n   models.Note
		iso int64
	)
	if err := s.Scan(&n.ID, &n.TitleText, &n.Content, &n.PlainText, &n.DateString, &iso, &n.Shared); err != nil {
		return nil, err
	}
	n.ISODate = fromUnix(iso)
	return &n, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Note, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note %d: %w", id, err)
	}
	return n, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// GetMany returns the notes found for ids in the order of ids. Unknown ids
// are skipped.
func (r *SQLiteRepository) GetMany(ctx context.Context, ids []int64) ([]models.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + noteColumns + ` FROM notes WHERE id IN (` + placeholders(len(ids)) + `)`
	found, err := r.query(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Note, len(found))
	for _, n := range found {
		byID[n.ID] = n
	}

	result := make([]models.Note, 0, len(found))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			result = append(result, n)
			delete(byID, id)
		}
	}
	return result, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, n *models.Note) (int64, error) {
	var id any
	if n.ID != 0 {
		id = n.ID
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, seq, title_text, content, plain_text, date_string, iso_date, shared)
		VALUES (?, `+nextSeq+`, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title_text  = excluded.title_text,
			content     = excluded.content,
			plain_text  = excluded.plain_text,
			date_string = excluded.date_string,
			iso_date    = excluded.iso_date,
			shared      = excluded.shared
	`, id, n.TitleText, n.Content, n.PlainText, n.DateString, toUnix(n.ISODate), n.Shared)
	if err != nil {
		return 0, fmt.Errorf("failed to put note %d: %w", n.ID, err)
	}

	if n.ID == 0 {
		assigned, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read assigned id: %w", err)
		}
		n.ID = assigned
	}
	return n.ID, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, n *models.Note) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, seq, title_text, content, plain_text, date_string, iso_date, shared)
		VALUES (?, `+nextSeq+`, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, n.ID, n.TitleText, n.Content, n.PlainText, n.DateString, toUnix(n.ISODate), n.Shared)
	if err != nil {
		return fmt.Errorf("failed to insert note %d: %w", n.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}

func (r *SQLiteRepository) Replace(ctx context.Context, oldID int64, n *models.Note) error {
	apply := func(ctx context.Context, db dbx.DBTX) error {
		repo := NewSQLiteRepository(db)
		if _, err := repo.Put(ctx, n); err != nil {
			return err
		}
		if oldID != n.ID {
			return repo.Delete(ctx, oldID)
		}
		return nil
	}

	if b, ok := r.db.(dbx.TxBeginner); ok {
		return dbx.WithTx(ctx, b, nil, apply)
	}
	return apply(ctx, r.db)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	return nil
}

// DeleteMany removes all ids in a single statement, so either every record
// goes or none does.
func (r *SQLiteRepository) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM notes WHERE id IN (` + placeholders(len(ids)) + `)`
	if _, err := r.db.ExecContext(ctx, query, int64Args(ids)...); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSortedBy(ctx context.Context, field models.SortField) ([]models.Note, error) {
	column, ok := orderBy[field]
	if !ok {
		return nil, fmt.Errorf("unknown sort field %q", field)
	}
	return r.query(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY `+column+`, seq`)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		result = append(result, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note rows: %w", err)
	}
	return result, nil
}
