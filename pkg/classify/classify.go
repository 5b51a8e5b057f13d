// Package classify maps object text fields to a historical era and a named
// sub-period.
package classify

import (
	"strings"

	"metharvest/pkg/met"
)

// Era is the coarse two-way split of history used as the top-level bucket.
type Era string

const (
	EraPreIslamic Era = "pre_islamic"
	EraIslamic    Era = "islamic"
	EraUnknown    Era = "unknown"
)

// Fallback sub-period names used when only date heuristics match.
const (
	SubPeriodAncientIran   = "Ancient Iran"
	SubPeriodIslamicPeriod = "Islamic Period"
	SubPeriodUnknown       = "Unknown"
)

// Classifier detects the historical period of an object from its text
// fields. Keyword tables are scanned in order; earlier entries win when
// several match.
type Classifier struct {
	preIslamic []string
	islamic    []string
}

// New creates a Classifier from ordered keyword tables.
func New(preIslamic, islamic []string) *Classifier {
	return &Classifier{
		preIslamic: preIslamic,
		islamic:    islamic,
	}
}

// Classify determines the era and sub-period of an object. It is a pure
// function of the title, culture, period, and objectDate fields and the
// keyword tables: no I/O, no external state.
func (c *Classifier) Classify(obj *met.Object) (Era, string) {
	title := strings.ToLower(obj.Title)
	culture := strings.ToLower(obj.Culture)
	period := strings.ToLower(obj.Period)
	objectDate := strings.ToLower(obj.ObjectDate)

	for _, name := range c.preIslamic {
		if matchesAny(strings.ToLower(name), title, culture, period, objectDate) {
			return EraPreIslamic, name
		}
	}
	for _, name := range c.islamic {
		if matchesAny(strings.ToLower(name), title, culture, period, objectDate) {
			return EraIslamic, name
		}
	}

	// Date-string heuristics when no keyword matched.
	if containsAny(objectDate, "bc", "b.c.", "before christ") {
		return EraPreIslamic, SubPeriodAncientIran
	}
	if containsAny(objectDate, "islamic", "ad", "a.d.", "hijri", "ah") {
		return EraIslamic, SubPeriodIslamicPeriod
	}

	return EraUnknown, SubPeriodUnknown
}

func matchesAny(keyword string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(f, keyword) {
			return true
		}
	}
	return false
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
