package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"viewsync/internal/domain"
	"viewsync/internal/repository"
)

type PreferenceRepository struct {
	db  *DB
	now func() time.Time
}

func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{db: db, now: time.Now}
}

type dbPreference struct {
	Name      string    `db:"name"`
	Value     string    `db:"value"`
	Revision  string    `db:"revision"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (dp *dbPreference) toPreference() *domain.Preference {
	return &domain.Preference{
		Name:      dp.Name,
		Value:     json.RawMessage(dp.Value),
		Revision:  dp.Revision,
		UpdatedAt: dp.UpdatedAt,
	}
}

func (r *PreferenceRepository) Get(ctx context.Context, name string) (*domain.Preference, error) {
	query := `
		SELECT name, value, revision, updated_at
		FROM preferences
		WHERE name = ?
	`

	var dp dbPreference
	err := r.db.GetContext(ctx, &dp, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", repository.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	return dp.toPreference(), nil
}

func (r *PreferenceRepository) Set(ctx context.Context, name string, value json.RawMessage) error {
	if err := domain.ValidatePreferenceName(name); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if isNullJSON(value) {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE name = ?`, name); err != nil {
			return fmt.Errorf("failed to clear preference: %w", err)
		}
		return nil
	}

	if !json.Valid(value) {
		return fmt.Errorf("validation failed: preference %q is not valid JSON", name)
	}

	query := `
		INSERT INTO preferences (name, value, revision, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			revision = excluded.revision,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, name, string(value), uuid.NewString(), r.now().UTC()); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}

	return nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %q", repository.ErrNotFound, name)
	}

	return nil
}

func (r *PreferenceRepository) List(ctx context.Context, filter repository.PreferenceFilter) ([]*domain.Preference, error) {
	where, args := buildWhere(filter)
	query := `SELECT name, value, revision, updated_at FROM preferences` + where

	orderBy := "name ASC"
	if filter.SortBy != "" {
		switch filter.SortBy {
		case "name", "updated_at":
			orderBy = filter.SortBy
			if filter.SortOrder == "asc" || filter.SortOrder == "desc" {
				orderBy += " " + filter.SortOrder
			} else {
				orderBy += " ASC"
			}
		}
	}

	query += " ORDER BY " + orderBy

	// sqlite only takes OFFSET after a LIMIT; -1 means no limit
	switch {
	case filter.Limit > 0:
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	case filter.Offset > 0:
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	var dbPrefs []dbPreference
	if err := r.db.SelectContext(ctx, &dbPrefs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	prefs := make([]*domain.Preference, 0, len(dbPrefs))
	for i := range dbPrefs {
		prefs = append(prefs, dbPrefs[i].toPreference())
	}

	return prefs, nil
}

func (r *PreferenceRepository) Count(ctx context.Context, filter repository.PreferenceFilter) (int64, error) {
	where, args := buildWhere(filter)

	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM preferences`+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count preferences: %w", err)
	}

	return count, nil
}
