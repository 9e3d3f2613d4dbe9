// Package memory keeps preferences in process memory. Used for tests and for
// running without a database.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"viewsync/internal/domain"
	"viewsync/internal/repository"
)

type PreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string]domain.Preference
	now   func() time.Time
}

func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{
		prefs: make(map[string]domain.Preference),
		now:   time.Now,
	}
}

func (r *PreferenceRepository) Get(ctx context.Context, name string) (*domain.Preference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	pref, ok := r.prefs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", repository.ErrNotFound, name)
	}
	return clonePreference(pref), nil
}

func (r *PreferenceRepository) Set(ctx context.Context, name string, value json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := domain.ValidatePreferenceName(name); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if value == nil || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		delete(r.prefs, name)
		return nil
	}
	if !json.Valid(value) {
		return fmt.Errorf("validation failed: preference %q is not valid JSON", name)
	}

	r.prefs[name] = domain.Preference{
		Name:      name,
		Value:     bytes.Clone(value),
		Revision:  uuid.NewString(),
		UpdatedAt: r.now().UTC(),
	}
	return nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prefs[name]; !ok {
		return fmt.Errorf("%w: %q", repository.ErrNotFound, name)
	}
	delete(r.prefs, name)
	return nil
}

func (r *PreferenceRepository) List(ctx context.Context, filter repository.PreferenceFilter) ([]*domain.Preference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var prefs []*domain.Preference
	for _, pref := range r.prefs {
		if matches(pref, filter) {
			prefs = append(prefs, clonePreference(pref))
		}
	}
	r.mu.RUnlock()

	desc := filter.SortOrder == "desc"
	slices.SortFunc(prefs, func(a, b *domain.Preference) int {
		var c int
		if filter.SortBy == "updated_at" {
			c = a.UpdatedAt.Compare(b.UpdatedAt)
		} else {
			c = strings.Compare(a.Name, b.Name)
		}
		if desc {
			return -c
		}
		return c
	})

	if filter.Offset > 0 {
		prefs = prefs[min(filter.Offset, len(prefs)):]
	}
	if filter.Limit > 0 && filter.Limit < len(prefs) {
		prefs = prefs[:filter.Limit]
	}

	return prefs, nil
}

func (r *PreferenceRepository) Count(ctx context.Context, filter repository.PreferenceFilter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, pref := range r.prefs {
		if matches(pref, filter) {
			count++
		}
	}
	return count, nil
}

// case-insensitive, like the SQLite LIKE filters
func matches(pref domain.Preference, filter repository.PreferenceFilter) bool {
	if filter.Prefix != "" && !strings.HasPrefix(strings.ToLower(pref.Name), strings.ToLower(filter.Prefix)) {
		return false
	}
	if filter.SearchQuery != "" {
		q := strings.ToLower(filter.SearchQuery)
		if !strings.Contains(strings.ToLower(pref.Name), q) && !strings.Contains(strings.ToLower(string(pref.Value)), q) {
			return false
		}
	}
	return true
}

func clonePreference(pref domain.Preference) *domain.Preference {
	pref.Value = bytes.Clone(pref.Value)
	return &pref
}
