package metadata

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"metharvest/pkg/classify"
	"metharvest/pkg/met"
)

func testRecord(id int, title string) *Record {
	obj := &met.Object{
		ObjectID:     id,
		Title:        title,
		Culture:      "Iran",
		PrimaryImage: "https://images.example.org/image.jpg?size=large&v=1",
	}
	return FromObject(obj, classify.EraIslamic, "Safavid", "images/islamic/Safavid/1.jpg")
}

func TestWriteJSONAndCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "metadata.json", "metadata.csv")

	records := []*Record{
		testRecord(1, "Bowl"),
		testRecord(2, "Ewer with café-au-lait glaze"),
	}

	if err := w.Write(records); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(w.JSONPath())
	if err != nil {
		t.Fatalf("reading JSON output: %v", err)
	}

	var decoded []*Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON output does not parse: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("decoded %d records, want 2", len(decoded))
	}
	if !reflect.DeepEqual(decoded[0], records[0]) {
		t.Errorf("round-tripped record differs:\ngot  %+v\nwant %+v", decoded[0], records[0])
	}

	// HTML escaping is off: URLs and non-ASCII text survive verbatim.
	text := string(data)
	if !strings.Contains(text, "size=large&v=1") {
		t.Error("JSON output escaped the ampersand in the image URL")
	}
	if !strings.Contains(text, "café-au-lait") {
		t.Error("JSON output mangled non-ASCII text")
	}
	if !strings.Contains(text, "\n    ") {
		t.Error("JSON output is not indented")
	}

	f, err := os.Open(w.CSVPath())
	if err != nil {
		t.Fatalf("reading CSV output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV output does not parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("CSV has %d rows, want header + 2 records", len(rows))
	}
	if !reflect.DeepEqual(rows[0], CSVHeader) {
		t.Errorf("CSV header = %v, want %v", rows[0], CSVHeader)
	}
	if rows[1][0] != "1" || rows[2][0] != "2" {
		t.Errorf("CSV rows out of order: %v, %v", rows[1][0], rows[2][0])
	}
}

func TestWriteEmptyRecords(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "metadata.json", "metadata.csv")

	if err := w.Write(nil); err != nil {
		t.Fatalf("Write(nil) error = %v", err)
	}

	data, err := os.ReadFile(w.JSONPath())
	if err != nil {
		t.Fatalf("JSON file missing for empty run: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "[]" {
		t.Errorf("empty JSON output = %q, want []", got)
	}

	if _, err := os.Stat(w.CSVPath()); !os.IsNotExist(err) {
		t.Error("CSV file written for empty record set")
	}
}

func TestWriteCreatesDatasetDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dataset")
	w := NewWriter(dir, "metadata.json", "metadata.csv")

	if err := w.Write([]*Record{testRecord(1, "Bowl")}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(w.JSONPath()); err != nil {
		t.Errorf("JSON file not created under nested dir: %v", err)
	}
}
