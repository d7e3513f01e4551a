package settings

import (
	"context"
)

// Well-known keys.
const (
	KeySortOrder     = "sort_order"
	KeyConfirmDelete = "confirm_delete"
)

type Repository interface {
	// Get returns (nil, nil) when the key is not set.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
}
