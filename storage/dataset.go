package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"emlak-analytics/models"
	"emlak-analytics/schemas"
	"emlak-analytics/utils"
)

// LoadDataset reads the mock listings JSON array from disk and validates each
// record against the embedded listing schema. Records that fail validation
// are skipped with a warning; they would be rejected by the normalizer anyway,
// but the schema error pinpoints the broken field.
func LoadDataset(path string, logger *utils.Logger) ([]models.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}

	var records []models.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("dataset: parse %q: %w", path, err)
	}

	valid := make([]models.RawRecord, 0, len(records))
	for i, record := range records {
		if err := schemas.ValidateListing(map[string]any(record)); err != nil {
			logger.Warn("[dataset] Skipping record %d: %v", i, err)
			continue
		}
		valid = append(valid, record)
	}

	logger.Info("[dataset] Loaded %d records from %s (%d failed validation)",
		len(valid), path, len(records)-len(valid))
	return valid, nil
}
