package classify

import (
	"testing"

	"metharvest/pkg/config"
	"metharvest/pkg/met"
)

func newTestClassifier() *Classifier {
	cfg := config.DefaultConfig()
	return New(cfg.Periods.PreIslamic, cfg.Periods.Islamic)
}

func TestClassifyKeywordMatching(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name      string
		obj       met.Object
		era       Era
		subPeriod string
	}{
		{
			name:      "pre-Islamic keyword in culture",
			obj:       met.Object{Culture: "Achaemenid"},
			era:       EraPreIslamic,
			subPeriod: "Achaemenid",
		},
		{
			name:      "pre-Islamic keyword in title",
			obj:       met.Object{Title: "Vessel fragment from Persepolis"},
			era:       EraPreIslamic,
			subPeriod: "Persepolis",
		},
		{
			name:      "Islamic keyword in period",
			obj:       met.Object{Period: "Safavid period"},
			era:       EraIslamic,
			subPeriod: "Safavid",
		},
		{
			name:      "Islamic keyword in object date",
			obj:       met.Object{ObjectDate: "Qajar era, 19th century"},
			era:       EraIslamic,
			subPeriod: "Qajar",
		},
		{
			name:      "case insensitive match",
			obj:       met.Object{Culture: "LURISTAN"},
			era:       EraPreIslamic,
			subPeriod: "Luristan",
		},
		{
			name:      "pre-Islamic table takes precedence over Islamic",
			obj:       met.Object{Title: "Parthian bowl", Culture: "Safavid"},
			era:       EraPreIslamic,
			subPeriod: "Parthian",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			era, subPeriod := c.Classify(&tt.obj)
			if era != tt.era || subPeriod != tt.subPeriod {
				t.Errorf("Classify() = (%s, %s), want (%s, %s)", era, subPeriod, tt.era, tt.subPeriod)
			}
		})
	}
}

func TestClassifyKeywordPrecedence(t *testing.T) {
	c := newTestClassifier()

	// Safavid is listed before Qajar in the Islamic table, so it wins when
	// both keywords appear.
	obj := &met.Object{Title: "Safavid and Qajar glazed tile"}
	era, subPeriod := c.Classify(obj)
	if era != EraIslamic {
		t.Errorf("era = %s, want %s", era, EraIslamic)
	}
	if subPeriod != "Safavid" {
		t.Errorf("subPeriod = %s, want Safavid", subPeriod)
	}
}

func TestClassifyDateFallback(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name       string
		objectDate string
		era        Era
		subPeriod  string
	}{
		{"bc marker", "400 BC", EraPreIslamic, SubPeriodAncientIran},
		{"b.c. marker", "ca. 500 B.C.", EraPreIslamic, SubPeriodAncientIran},
		{"ad marker", "1500 AD", EraIslamic, SubPeriodIslamicPeriod},
		{"hijri marker", "hijri 900", EraIslamic, SubPeriodIslamicPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			era, subPeriod := c.Classify(&met.Object{ObjectDate: tt.objectDate})
			if era != tt.era || subPeriod != tt.subPeriod {
				t.Errorf("Classify() = (%s, %s), want (%s, %s)", era, subPeriod, tt.era, tt.subPeriod)
			}
		})
	}
}

func TestClassifyUnmatched(t *testing.T) {
	c := newTestClassifier()

	era, subPeriod := c.Classify(&met.Object{})
	if era != EraUnknown {
		t.Errorf("era = %s, want %s", era, EraUnknown)
	}
	if subPeriod != SubPeriodUnknown {
		t.Errorf("subPeriod = %s, want %s", subPeriod, SubPeriodUnknown)
	}
}

func TestClassifyIsPure(t *testing.T) {
	c := newTestClassifier()
	obj := &met.Object{
		Title:      "Bowl with animal motifs",
		Culture:    "Iran, Seljuk",
		Period:     "Seljuq period",
		ObjectDate: "12th century",
	}

	firstEra, firstSub := c.Classify(obj)
	for i := 0; i < 10; i++ {
		era, sub := c.Classify(obj)
		if era != firstEra || sub != firstSub {
			t.Fatalf("Classify() not deterministic: got (%s, %s), want (%s, %s)", era, sub, firstEra, firstSub)
		}
	}
}
