package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"replaystats/internal/pkg/models"
)

// SummaryHeader is the column order of the summary table.
var SummaryHeader = []string{
	"id", "date", "outcome",
	"shots", "goals", "saves", "assists", "demos",
	"boost_bpm", "avg_speed",
}

// WriteSummaryCSV writes the summary table to path, replacing any
// previous file. One row per replay, input order preserved.
func WriteSummaryCSV(path string, rows []models.SummaryRow) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(SummaryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(record(row)); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row.ReplayID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func record(row models.SummaryRow) []string {
	return []string{
		row.ReplayID,
		row.Date,
		string(row.Outcome),
		strconv.Itoa(row.Shots),
		strconv.Itoa(row.Goals),
		strconv.Itoa(row.Saves),
		strconv.Itoa(row.Assists),
		strconv.Itoa(row.Demos),
		formatFloat(row.BoostBPM),
		formatFloat(row.AvgSpeed),
	}
}

// formatFloat keeps the shortest representation that round-trips, so
// whole numbers come out without a trailing ".0".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
