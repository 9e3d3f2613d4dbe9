package export

import (
	"encoding/json"
	"time"
)

const BackupVersion = "1.0"

type PreferenceData struct {
	Name      string          `json:"name"`
	Value     json.RawMessage `json:"value"`
	Revision  string          `json:"revision,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type BackupData struct {
	Version     string            `json:"version"`
	Timestamp   time.Time         `json:"timestamp"`
	Preferences []*PreferenceData `json:"preferences"`
}

type ConflictStrategy string

const (
	ConflictStrategySkip      ConflictStrategy = "skip"
	ConflictStrategyOverwrite ConflictStrategy = "overwrite"
)

func ParseConflictStrategy(s string) (ConflictStrategy, bool) {
	switch ConflictStrategy(s) {
	case ConflictStrategySkip, ConflictStrategyOverwrite:
		return ConflictStrategy(s), true
	}
	return "", false
}

type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatCSV      ExportFormat = "csv"
	FormatMarkdown ExportFormat = "markdown"
)

func ParseFormat(s string) (ExportFormat, bool) {
	switch ExportFormat(s) {
	case FormatJSON, FormatCSV, FormatMarkdown:
		return ExportFormat(s), true
	}
	return "", false
}

// ImportResult reports what a restore did, by preference name.
type ImportResult struct {
	Imported []string
	Skipped  []string
	Invalid  map[string]error
}
