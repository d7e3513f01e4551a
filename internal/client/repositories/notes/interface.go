package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when no record has the id.
	Get(ctx context.Context, id int64) (*models.Note, error)
	GetMany(ctx context.Context, ids []int64) ([]models.Note, error)
	// Put inserts or fully replaces the record. A zero id is assigned by
	// the store and written back into n.
	Put(ctx context.Context, n *models.Note) (int64, error)
	// Insert stores n only if its id is free.
	Insert(ctx context.Context, n *models.Note) error
	// Replace stores n and removes the record under oldID when that
	// differs from n.ID. Both changes land together or not at all.
	Replace(ctx context.Context, oldID int64, n *models.Note) error
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) error
	ListSortedBy(ctx context.Context, field models.SortField) ([]models.Note, error)
}
