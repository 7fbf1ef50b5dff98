package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/iamkumarji/Multi-Platform-Sentiment-Analyzer/internal/models"
)

// Document is the export shape handed to the dashboard layer: every
// reconciled result joined with its record's display fields, plus the flat
// summary statistics.
type Document struct {
	Summary models.Summary      `json:"summary"`
	Stats   map[string]any      `json:"stats"`
	Rows    []models.DatasetRow `json:"rows"`
}

// Write serializes the run as indented JSON.
func Write(w io.Writer, summary models.Summary, dataset *models.UnifiedDataset) error {
	doc := Document{
		Summary: summary,
		Stats:   summary.Stats(),
		Rows:    dataset.Rows(),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("export: failed to encode run: %w", err)
	}
	return nil
}

// WriteFile writes the run document to path.
func WriteFile(path string, summary models.Summary, dataset *models.UnifiedDataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: failed to create %s: %w", path, err)
	}
	defer f.Close()

	return Write(f, summary, dataset)
}
