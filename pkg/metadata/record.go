package metadata

import (
	"strconv"
	"strings"

	"metharvest/pkg/classify"
	"metharvest/pkg/met"
)

// maxFieldLength caps every normalized text field.
const maxFieldLength = 500

// Source tags every record with its originating collection.
const Source = "MET"

// Record is the persisted metadata for one downloaded object. Created once
// per successful download and immutable thereafter.
type Record struct {
	ObjectID          int    `json:"objectID"`
	Title             string `json:"title"`
	Culture           string `json:"culture"`
	Period            string `json:"period"`
	ObjectDate        string `json:"objectDate"`
	ObjectName        string `json:"objectName"`
	Classification    string `json:"classification"`
	Medium            string `json:"medium"`
	Dimensions        string `json:"dimensions"`
	CreditLine        string `json:"creditLine"`
	Country           string `json:"country"`
	Region            string `json:"region"`
	Tags              string `json:"tags"`
	IsPublicDomain    bool   `json:"isPublicDomain"`
	PrimaryImage      string `json:"primaryImage"`
	EraClassification string `json:"era_classification"`
	HistoricalPeriod  string `json:"historical_period"`
	LocalPath         string `json:"local_path"`
	Source            string `json:"source"`
}

// CSVHeader is the fixed column ordering of the CSV output.
var CSVHeader = []string{
	"objectID", "title", "culture", "period", "objectDate",
	"objectName", "classification", "medium", "dimensions",
	"creditLine", "country", "region", "tags", "isPublicDomain",
	"primaryImage", "era_classification", "historical_period",
	"local_path", "source",
}

// NormalizeText collapses whitespace runs to single spaces, trims, and
// truncates to 500 characters. Idempotent.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxFieldLength {
		text = strings.TrimSpace(string(runes[:maxFieldLength]))
	}
	return text
}

// FromObject flattens an API object plus its classification into a Record.
// All text fields are normalized; tags are comma-joined.
func FromObject(obj *met.Object, era classify.Era, subPeriod, localPath string) *Record {
	return &Record{
		ObjectID:          obj.ObjectID,
		Title:             NormalizeText(obj.Title),
		Culture:           NormalizeText(obj.Culture),
		Period:            NormalizeText(obj.Period),
		ObjectDate:        NormalizeText(obj.ObjectDate),
		ObjectName:        NormalizeText(obj.ObjectName),
		Classification:    NormalizeText(obj.Classification),
		Medium:            NormalizeText(obj.Medium),
		Dimensions:        NormalizeText(obj.Dimensions),
		CreditLine:        NormalizeText(obj.CreditLine),
		Country:           NormalizeText(obj.Country),
		Region:            NormalizeText(obj.Region),
		Tags:              strings.Join(obj.Tags, ", "),
		IsPublicDomain:    obj.IsPublicDomain,
		PrimaryImage:      obj.PrimaryImage,
		EraClassification: string(era),
		HistoricalPeriod:  subPeriod,
		LocalPath:         localPath,
		Source:            Source,
	}
}

// csvRow renders the record in CSVHeader column order.
func (r *Record) csvRow() []string {
	return []string{
		strconv.Itoa(r.ObjectID),
		r.Title,
		r.Culture,
		r.Period,
		r.ObjectDate,
		r.ObjectName,
		r.Classification,
		r.Medium,
		r.Dimensions,
		r.CreditLine,
		r.Country,
		r.Region,
		r.Tags,
		strconv.FormatBool(r.IsPublicDomain),
		r.PrimaryImage,
		r.EraClassification,
		r.HistoricalPeriod,
		r.LocalPath,
		r.Source,
	}
}
