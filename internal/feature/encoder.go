package feature

import (
	"fmt"
	"time"
)

// ErrBadDate reports a shift date that is not a valid YYYY-MM-DD calendar date.
var ErrBadDate = fmt.Errorf("not a valid YYYY-MM-DD calendar date")

// ShiftDateLayout is the wire format for every date in the system.
const ShiftDateLayout = "2006-01-02"

// ParseShiftDate parses a wire-format shift date.
func ParseShiftDate(s string) (time.Time, error) {
	t, err := time.Parse(ShiftDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("shift date %q: %w", s, ErrBadDate)
	}
	return t, nil
}

// block is one calendar attribute of the one-hot layout: its name, the number
// of columns reserved for it, and how to read its value from a date.
type block struct {
	name  string
	width int
	value func(t time.Time) int // 1-based attribute value
}

// blocks is the declarative column layout. Widths cover the full valid range
// of each attribute (ISO week 1-53, ISO weekday 1-7, month 1-12, day 1-31) so
// the encoded width never depends on which dates the training sample held.
var blocks = []block{
	{"week", 53, func(t time.Time) int { _, w := t.ISOWeek(); return w }},
	{"weekday", 7, func(t time.Time) int { return isoWeekday(t) }},
	{"month", 12, func(t time.Time) int { return int(t.Month()) }},
	{"monthday", 31, func(t time.Time) int { return t.Day() }},
}

// Width is the total one-hot column count, identical for every transform.
func Width() int {
	total := 0
	for _, b := range blocks {
		total += b.width
	}
	return total
}

// CalendarEncoder one-hot encodes calendar attributes of shift dates. Fit
// learns which attribute values exist in the training dates; Transform maps a
// value the encoder never saw to an all-zero block instead of failing. The
// fitted state is read-only: the same encoder value must be threaded from the
// training build to the prediction build so columns line up.
type CalendarEncoder struct {
	seen   []map[int]bool
	fitted bool
}

func NewCalendarEncoder() *CalendarEncoder {
	return &CalendarEncoder{}
}

// Fit records the distinct attribute values observed across dates.
func (e *CalendarEncoder) Fit(dates []time.Time) {
	e.seen = make([]map[int]bool, len(blocks))
	for i := range blocks {
		e.seen[i] = make(map[int]bool)
	}
	for _, t := range dates {
		for i, b := range blocks {
			e.seen[i][b.value(t)] = true
		}
	}
	e.fitted = true
}

// Fitted reports whether Fit has run.
func (e *CalendarEncoder) Fitted() bool {
	return e.fitted
}

// Transform encodes each date into one row of Width() binary columns, one
// one-hot block per calendar attribute, in fixed block order.
func (e *CalendarEncoder) Transform(dates []time.Time) ([][]float64, error) {
	if !e.fitted {
		return nil, fmt.Errorf("calendar encoder used before Fit")
	}

	width := Width()
	rows := make([][]float64, len(dates))
	for r, t := range dates {
		row := make([]float64, width)
		offset := 0
		for i, b := range blocks {
			v := b.value(t)
			if e.seen[i][v] && v >= 1 && v <= b.width {
				row[offset+v-1] = 1
			}
			offset += b.width
		}
		rows[r] = row
	}
	return rows, nil
}

// ColumnName names a one-hot column by its global index, e.g. "week_12".
func ColumnName(col int) string {
	for _, b := range blocks {
		if col < b.width {
			return fmt.Sprintf("%s_%d", b.name, col+1)
		}
		col -= b.width
	}
	return fmt.Sprintf("col_%d", col)
}

// isoWeekday maps Go's Sunday-first weekday to ISO numbering (Mon=1..Sun=7).
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
