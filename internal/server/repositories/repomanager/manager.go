package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction and owns the schema.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Notes(db dbx.DBTX) notes.Repository
}
