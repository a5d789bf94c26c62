package feature

import (
	"fmt"
	"math"
	"sort"
	"time"

	"urgentcast/internal/models"
)

// Method selects which record set supplies the date universe for a build.
type Method int

const (
	// Train indexes features by the dates exceptions were logged on.
	Train Method = iota
	// Predict indexes features by the future period's shift dates, since no
	// exception log exists yet for a period not observed.
	Predict
)

// Table is a feature matrix indexed by shift date. Rows are one-hot calendar
// columns followed by a single summed-productive-hours column. Dates map 1:1
// to rows of X, ascending.
type Table struct {
	Dates []string
	X     [][]float64
}

// Builder turns dated records into one feature row per distinct shift date.
type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build groups the chosen record set by shift date, one-hot encodes the dates
// with enc, and appends each date's total productive hours. For Train the
// encoder is fitted here; for Predict it must already be fitted and is reused
// untouched. A date with no productive-hours rows gets NaN hours, which the
// pipeline sanitizes to zero.
func (b *Builder) Build(exceptions []models.ExceptionRecord, productive []models.ProductiveHoursRecord, method Method, enc *CalendarEncoder) (*Table, error) {
	var keys []string
	switch method {
	case Train:
		keys = make([]string, 0, len(exceptions))
		for _, rec := range exceptions {
			keys = append(keys, rec.ShiftDate)
		}
	case Predict:
		keys = make([]string, 0, len(productive))
		for _, rec := range productive {
			keys = append(keys, rec.ShiftDate)
		}
	default:
		return nil, fmt.Errorf("unknown build method %d", method)
	}

	dates := distinctSorted(keys)
	parsed := make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := ParseShiftDate(d)
		if err != nil {
			return nil, err
		}
		parsed[i] = t
	}

	if method == Train {
		enc.Fit(parsed)
	} else if !enc.Fitted() {
		return nil, fmt.Errorf("predict build requires an encoder fitted on training dates")
	}

	onehot, err := enc.Transform(parsed)
	if err != nil {
		return nil, err
	}

	// Total productive hours per date, joined by shift date.
	hours := make(map[string]float64, len(productive))
	for _, rec := range productive {
		if _, err := ParseShiftDate(rec.ShiftDate); err != nil {
			return nil, err
		}
		hours[rec.ShiftDate] += rec.Hours
	}

	rows := make([][]float64, len(dates))
	for i, d := range dates {
		h, ok := hours[d]
		if !ok {
			h = math.NaN()
		}
		rows[i] = append(onehot[i], h)
	}

	return &Table{Dates: dates, X: rows}, nil
}

func distinctSorted(keys []string) []string {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
