package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"viewsync/internal/repository"
)

type JSONExporter struct {
	repo repository.PreferenceRepository
	now  func() time.Time
}

func NewJSONExporter(repo repository.PreferenceRepository) *JSONExporter {
	return &JSONExporter{repo: repo, now: time.Now}
}

// CreateBackup collects every preference matching filter, ordered by name.
func (e *JSONExporter) CreateBackup(ctx context.Context, filter repository.PreferenceFilter) (*BackupData, error) {
	filter.SortBy, filter.SortOrder = "name", "asc"

	prefs, err := e.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}

	data := make([]*PreferenceData, 0, len(prefs))
	for _, p := range prefs {
		data = append(data, &PreferenceData{
			Name:      p.Name,
			Value:     p.Value,
			Revision:  p.Revision,
			UpdatedAt: p.UpdatedAt,
		})
	}

	return &BackupData{
		Version:     BackupVersion,
		Timestamp:   e.now().UTC(),
		Preferences: data,
	}, nil
}

func (e *JSONExporter) CreateBackupToWriter(ctx context.Context, w io.Writer, filter repository.PreferenceFilter) error {
	backup, err := e.CreateBackup(ctx, filter)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}
