package feature

import "urgentcast/internal/models"

// DefaultUrgentCategories is the domain's urgent earning-category set.
var DefaultUrgentCategories = []string{"Overtime", "Relief Not Found"}

// Labeler counts urgent exceptions per shift date.
type Labeler struct {
	urgent map[string]bool
}

// NewLabeler builds a labeler for an explicit urgent-category set. An empty
// set falls back to the default domain categories.
func NewLabeler(categories []string) *Labeler {
	if len(categories) == 0 {
		categories = DefaultUrgentCategories
	}
	urgent := make(map[string]bool, len(categories))
	for _, c := range categories {
		urgent[c] = true
	}
	return &Labeler{urgent: urgent}
}

// Build returns one label per date of the feature index, in index order: the
// count of urgent exception rows on that date, 0 where none occurred. Urgent
// rows on dates outside the index are dropped.
func (l *Labeler) Build(exceptions []models.ExceptionRecord, index []string) []float64 {
	counts := make(map[string]float64, len(index))
	for _, rec := range exceptions {
		if l.urgent[rec.EarningCategory] {
			counts[rec.ShiftDate]++
		}
	}

	y := make([]float64, len(index))
	for i, d := range index {
		y[i] = counts[d]
	}
	return y
}
