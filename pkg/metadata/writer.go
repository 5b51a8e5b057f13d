package metadata

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer serializes accumulated records to JSON and CSV files under the
// dataset directory.
type Writer struct {
	jsonPath string
	csvPath  string
}

// NewWriter creates a writer for the given dataset directory and file names.
func NewWriter(datasetDir, jsonFile, csvFile string) *Writer {
	return &Writer{
		jsonPath: filepath.Join(datasetDir, jsonFile),
		csvPath:  filepath.Join(datasetDir, csvFile),
	}
}

// JSONPath returns the JSON output location.
func (w *Writer) JSONPath() string { return w.jsonPath }

// CSVPath returns the CSV output location.
func (w *Writer) CSVPath() string { return w.csvPath }

// Write persists the records. The JSON array is always written, even when
// empty; the CSV is written only when at least one record exists.
func (w *Writer) Write(records []*Record) error {
	if err := ensureDir(w.jsonPath); err != nil {
		return err
	}

	if err := w.writeJSON(records); err != nil {
		return err
	}

	if len(records) > 0 {
		if err := w.writeCSV(records); err != nil {
			return err
		}
	}

	return nil
}

// writeJSON writes a pretty-printed array with HTML escaping disabled so
// URLs and non-ASCII text survive verbatim.
func (w *Writer) writeJSON(records []*Record) error {
	if records == nil {
		records = []*Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode json records: %w", err)
	}

	if err := os.WriteFile(w.jsonPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// writeCSV writes the fixed 19-column header followed by one row per record.
func (w *Writer) writeCSV(records []*Record) error {
	f, err := os.Create(w.csvPath)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.csvRow()); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
