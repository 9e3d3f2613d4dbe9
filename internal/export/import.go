package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"viewsync/internal/domain"
	"viewsync/internal/preference"
	"viewsync/internal/repository"
)

type Importer struct {
	repo   repository.PreferenceRepository
	logger *zap.Logger
}

func NewImporter(repo repository.PreferenceRepository, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{repo: repo, logger: logger}
}

// RestoreBackup writes the preferences of a backup. Entries holding a view
// that does not validate are reported in the result and not written.
func (i *Importer) RestoreBackup(ctx context.Context, r io.Reader, strategy ConflictStrategy) (*ImportResult, error) {
	if _, ok := ParseConflictStrategy(string(strategy)); !ok {
		return nil, fmt.Errorf("unknown conflict strategy %q", strategy)
	}

	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	result := &ImportResult{Invalid: make(map[string]error)}

	for _, data := range backup.Preferences {
		if data == nil {
			continue
		}
		if err := validateEntry(data); err != nil {
			i.logger.Warn("skipping invalid preference", zap.String("name", data.Name), zap.Error(err))
			result.Invalid[data.Name] = err
			continue
		}

		_, err := i.repo.Get(ctx, data.Name)
		switch {
		case err == nil:
			if strategy == ConflictStrategySkip {
				result.Skipped = append(result.Skipped, data.Name)
				continue
			}
		case !errors.Is(err, repository.ErrNotFound):
			return result, fmt.Errorf("failed to check preference %s: %w", data.Name, err)
		}

		if err := i.repo.Set(ctx, data.Name, data.Value); err != nil {
			return result, fmt.Errorf("failed to import preference %s: %w", data.Name, err)
		}
		result.Imported = append(result.Imported, data.Name)
	}

	return result, nil
}

func validateEntry(data *PreferenceData) error {
	if err := domain.ValidatePreferenceName(data.Name); err != nil {
		return err
	}
	if len(data.Value) == 0 || string(data.Value) == "null" {
		return errors.New("preference has no value")
	}
	if !json.Valid(data.Value) {
		return errors.New("preference value is not valid JSON")
	}
	if _, _, isView := preference.ParseName(data.Name); isView {
		if _, err := domain.DecodePersistedView(data.Value); err != nil {
			return err
		}
	}
	return nil
}
