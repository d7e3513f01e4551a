package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*models.Note, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, note *models.Note) error
}
