package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewsync/internal/repository"
	"viewsync/internal/repository/memory"
)

func seed(t *testing.T, values map[string]string) *memory.PreferenceRepository {
	t.Helper()
	repo := memory.NewPreferenceRepository()
	for name, value := range values {
		require.NoError(t, repo.Set(context.Background(), name, json.RawMessage(value)))
	}
	return repo
}

func TestCreateBackup(t *testing.T) {
	repo := seed(t, map[string]string{
		"dashboard-dataviews-view-sites":   `{"type":"grid"}`,
		"dashboard-dataviews-view-domains": `{"type":"list"}`,
		"theme":                            `"nord"`,
	})

	exporter := NewJSONExporter(repo)
	exporter.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	backup, err := exporter.CreateBackup(context.Background(), repository.PreferenceFilter{Prefix: "dashboard-"})
	require.NoError(t, err)

	assert.Equal(t, BackupVersion, backup.Version)
	assert.Equal(t, 2026, backup.Timestamp.Year())
	require.Len(t, backup.Preferences, 2)
	assert.Equal(t, "dashboard-dataviews-view-domains", backup.Preferences[0].Name)
	assert.NotEmpty(t, backup.Preferences[0].Revision)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	src := seed(t, map[string]string{
		"dashboard-dataviews-view-sites": `{"type":"grid","sort":{"field":"name","direction":"asc"}}`,
		"theme":                          `"nord"`,
	})

	var buf bytes.Buffer
	require.NoError(t, NewJSONExporter(src).CreateBackupToWriter(context.Background(), &buf, repository.PreferenceFilter{}))

	dst := memory.NewPreferenceRepository()
	result, err := NewImporter(dst, nil).RestoreBackup(context.Background(), &buf, ConflictStrategySkip)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dashboard-dataviews-view-sites", "theme"}, result.Imported)

	pref, err := dst.Get(context.Background(), "dashboard-dataviews-view-sites")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"grid","sort":{"field":"name","direction":"asc"}}`, string(pref.Value))
}

func TestRestoreBackup_ConflictStrategies(t *testing.T) {
	backup := `{"version":"1.0","timestamp":"2026-03-01T00:00:00Z","preferences":[
		{"name":"theme","value":"dark"}
	]}`

	tests := []struct {
		strategy ConflictStrategy
		want     string
		imported int
		skipped  int
	}{
		{strategy: ConflictStrategySkip, want: `"nord"`, imported: 0, skipped: 1},
		{strategy: ConflictStrategyOverwrite, want: `"dark"`, imported: 1, skipped: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			repo := seed(t, map[string]string{"theme": `"nord"`})

			result, err := NewImporter(repo, nil).RestoreBackup(context.Background(), strings.NewReader(backup), tt.strategy)
			require.NoError(t, err)
			assert.Len(t, result.Imported, tt.imported)
			assert.Len(t, result.Skipped, tt.skipped)

			pref, err := repo.Get(context.Background(), "theme")
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(pref.Value))
		})
	}
}

func TestRestoreBackup_RejectsInvalidViews(t *testing.T) {
	backup := `{"version":"1.0","preferences":[
		{"name":"dashboard-dataviews-view-sites","value":{"type":"carousel"}},
		{"name":"dashboard-dataviews-view-plugins","value":{"type":"grid"}},
		{"name":"empty","value":null}
	]}`

	repo := memory.NewPreferenceRepository()
	result, err := NewImporter(repo, nil).RestoreBackup(context.Background(), strings.NewReader(backup), ConflictStrategyOverwrite)
	require.NoError(t, err)

	assert.Equal(t, []string{"dashboard-dataviews-view-plugins"}, result.Imported)
	assert.Contains(t, result.Invalid, "dashboard-dataviews-view-sites")
	assert.Contains(t, result.Invalid, "empty")

	_, err = repo.Get(context.Background(), "dashboard-dataviews-view-sites")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRestoreBackup_BadInput(t *testing.T) {
	importer := NewImporter(memory.NewPreferenceRepository(), nil)

	_, err := importer.RestoreBackup(context.Background(), strings.NewReader(`{}`), "merge")
	assert.Error(t, err)

	_, err = importer.RestoreBackup(context.Background(), strings.NewReader(`{"version":"9"}`), ConflictStrategySkip)
	assert.Error(t, err)

	_, err = importer.RestoreBackup(context.Background(), strings.NewReader(`not json`), ConflictStrategySkip)
	assert.Error(t, err)
}

func TestExportPreferencesToCSV(t *testing.T) {
	repo := seed(t, map[string]string{
		"dashboard-dataviews-view-sites": `{"type":"grid","sort":{"field":"name","direction":"asc"}}`,
		"theme":                          `"nord"`,
	})

	var buf bytes.Buffer
	require.NoError(t, NewCSVExporter(repo).ExportPreferencesToCSV(context.Background(), &buf, repository.PreferenceFilter{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "dashboard-dataviews-view-sites", rows[1][0])
	assert.Equal(t, "dashboard", rows[1][1])
	assert.Equal(t, "sites", rows[1][2])
	assert.Equal(t, "grid, sort:name asc, page:1", rows[1][3])
	assert.Equal(t, "", rows[2][1])
}

func TestExportViewsToMarkdown(t *testing.T) {
	repo := seed(t, map[string]string{
		"dashboard-dataviews-view-sites": `{"type":"list"}`,
		"agency-dataviews-view-sites":    `{"type":"broken"}`,
		"theme":                          `"nord"`,
	})

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownExporter(repo).ExportViewsToMarkdown(context.Background(), &buf, repository.PreferenceFilter{}))

	out := buf.String()
	assert.Contains(t, out, "## agency (1)")
	assert.Contains(t, out, "## dashboard (1)")
	assert.Contains(t, out, "| sites | list, page:1 |")
	assert.Contains(t, out, "invalid view")
	assert.Contains(t, out, "- `theme`")
	assert.Less(t, strings.Index(out, "## agency"), strings.Index(out, "## dashboard"))
}

func TestParseHelpers(t *testing.T) {
	_, ok := ParseConflictStrategy("overwrite")
	assert.True(t, ok)
	_, ok = ParseConflictStrategy("merge")
	assert.False(t, ok)

	f, ok := ParseFormat("markdown")
	assert.True(t, ok)
	assert.Equal(t, FormatMarkdown, f)
	_, ok = ParseFormat("xml")
	assert.False(t, ok)
}
