package repository

import (
	"context"
	"encoding/json"
	"errors"

	"viewsync/internal/domain"
)

var ErrNotFound = errors.New("preference not found")

type PreferenceRepository interface {
	// Get returns ErrNotFound when nothing is stored under name.
	Get(ctx context.Context, name string) (*domain.Preference, error)
	// Set stores value under name. A nil value or JSON null deletes the
	// preference and is not an error when nothing was stored.
	Set(ctx context.Context, name string, value json.RawMessage) error
	Delete(ctx context.Context, name string) error

	List(ctx context.Context, filter PreferenceFilter) ([]*domain.Preference, error)
	Count(ctx context.Context, filter PreferenceFilter) (int64, error)
}

type PreferenceFilter struct {
	Prefix      string
	SearchQuery string
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
}
