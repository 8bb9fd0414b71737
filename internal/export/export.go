// Package export turns currently-held list rows into downloadable files.
// Everything here is a pure client-side transform; no server round-trip.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// WriteCSV writes a fixed header row followed by the given rows. The output
// depends only on the inputs, so exporting the same rows twice produces
// identical bytes.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToCSVFile writes rows into exportPath with a timestamped filename and
// returns the full path.
func ToCSVFile(exportPath, entity string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(exportPath, fmt.Sprintf("%s_export_%s.csv", entity, timestamp))

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, header, rows); err != nil {
		return "", err
	}
	return filePath, nil
}

// ToJSONFile writes the held rows as indented JSON, for piping into other
// tooling.
func ToJSONFile[T any](exportPath, entity string, rows []T) (string, error) {
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(exportPath, fmt.Sprintf("%s_export_%s.json", entity, timestamp))

	data, err := json.MarshalIndent(map[string]any{
		"exportedAt": time.Now().Format("2006-01-02 15:04:05"),
		"count":      len(rows),
		"rows":       rows,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal rows: %w", err)
	}

	if err := os.WriteFile(filePath, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return filePath, nil
}
