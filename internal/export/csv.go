package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"viewsync/internal/domain"
	"viewsync/internal/preference"
	"viewsync/internal/repository"
)

type CSVExporter struct {
	repo repository.PreferenceRepository
}

func NewCSVExporter(repo repository.PreferenceRepository) *CSVExporter {
	return &CSVExporter{repo: repo}
}

// ExportPreferencesToCSV writes one row per preference. View preferences also
// get their namespace, slug and a readable summary.
func (e *CSVExporter) ExportPreferencesToCSV(ctx context.Context, w io.Writer, filter repository.PreferenceFilter) error {
	prefs, err := e.repo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list preferences: %w", err)
	}

	writer := csv.NewWriter(w)

	header := []string{"Name", "Namespace", "Slug", "Summary", "Revision", "Updated At", "Value"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range prefs {
		row := []string{p.Name, "", "", "", p.Revision, p.UpdatedAt.Format("2006-01-02 15:04:05"), string(p.Value)}

		if ns, slug, ok := preference.ParseName(p.Name); ok {
			row[1], row[2] = ns, slug
			if pv, err := domain.DecodePersistedView(p.Value); err == nil {
				row[3] = pv.WithTransient(domain.DefaultPage, "").Summary()
			} else {
				row[3] = "invalid view"
			}
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
