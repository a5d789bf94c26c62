package forecast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urgentcast/internal/models"
)

func excep(date, category, family string) models.ExceptionRecord {
	return models.ExceptionRecord{ShiftDate: date, EarningCategory: category, JobFamily: family}
}

func prod(date, desc string, hours float64) models.ProductiveHoursRecord {
	return models.ProductiveHoursRecord{ShiftDate: date, JobFamilyDescription: desc, Hours: hours}
}

func TestFitPredictEndToEnd(t *testing.T) {
	exceptions := []models.ExceptionRecord{
		excep("2020-01-01", "Overtime", "X"),
		excep("2020-01-02", "Regular", "X"),
	}
	prodTrain := []models.ProductiveHoursRecord{
		prod("2020-01-01", "X", 40),
		prod("2020-01-02", "X", 40),
	}
	prodPred := []models.ProductiveHoursRecord{
		prod("2020-02-01", "X", 40),
	}

	preds, err := NewPipeline(nil).FitPredict(exceptions, prodTrain, prodPred)
	require.NoError(t, err)

	require.Len(t, preds, 1)
	assert.Equal(t, "2020-02-01", preds[0].DS)
	assert.GreaterOrEqual(t, preds[0].YHat, 0.0)
}

func TestFitPredictNeverNegative(t *testing.T) {
	// A quarter of consecutive days with counts falling as hours rise, then a
	// prediction date with extreme hours. An unclamped linear model would be
	// pushed negative; the pipeline must clamp.
	var exceptions []models.ExceptionRecord
	var prodTrain []models.ProductiveHoursRecord
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 90; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		exceptions = append(exceptions, excep(d, "Regular", "X"))
		count := 90 - i
		for c := 0; c < count; c++ {
			exceptions = append(exceptions, excep(d, "Overtime", "X"))
		}
		prodTrain = append(prodTrain, prod(d, "X", float64(10*i)))
	}
	prodPred := []models.ProductiveHoursRecord{
		prod("2020-06-01", "X", 1e6),
	}

	preds, err := NewPipeline(nil).FitPredict(exceptions, prodTrain, prodPred)
	require.NoError(t, err)

	for _, p := range preds {
		assert.GreaterOrEqual(t, p.YHat, 0.0)
	}
}

func TestFitPredictMissingHoursDateSurvives(t *testing.T) {
	// 2020-01-02 has exceptions but no productive-hours row: it must become a
	// zero-hours feature row, not a dropped row or an error.
	exceptions := []models.ExceptionRecord{
		excep("2020-01-01", "Overtime", "X"),
		excep("2020-01-02", "Overtime", "X"),
	}
	prodTrain := []models.ProductiveHoursRecord{
		prod("2020-01-01", "X", 40),
	}
	prodPred := []models.ProductiveHoursRecord{
		prod("2020-02-01", "X", 40),
	}

	preds, err := NewPipeline(nil).FitPredict(exceptions, prodTrain, prodPred)
	require.NoError(t, err)
	require.Len(t, preds, 1)
}

func TestFitPredictOneRowPerDistinctDate(t *testing.T) {
	exceptions := []models.ExceptionRecord{
		excep("2020-01-01", "Overtime", "X"),
	}
	prodTrain := []models.ProductiveHoursRecord{
		prod("2020-01-01", "X", 40),
	}
	prodPred := []models.ProductiveHoursRecord{
		prod("2020-02-01", "X", 8),
		prod("2020-02-01", "X", 8),
		prod("2020-02-02", "X", 8),
	}

	preds, err := NewPipeline(nil).FitPredict(exceptions, prodTrain, prodPred)
	require.NoError(t, err)

	require.Len(t, preds, 2)
	assert.Equal(t, "2020-02-01", preds[0].DS)
	assert.Equal(t, "2020-02-02", preds[1].DS)
}

func TestFitPredictInputErrors(t *testing.T) {
	tests := map[string]struct {
		exceptions []models.ExceptionRecord
		prodTrain  []models.ProductiveHoursRecord
		prodPred   []models.ProductiveHoursRecord
		want       error
	}{
		"no training rows": {
			prodPred: []models.ProductiveHoursRecord{prod("2020-02-01", "X", 40)},
			want:     ErrNoTrainingData,
		},
		"no prediction dates": {
			exceptions: []models.ExceptionRecord{excep("2020-01-01", "Overtime", "X")},
			prodTrain:  []models.ProductiveHoursRecord{prod("2020-01-01", "X", 40)},
			want:       ErrNoPredictDates,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewPipeline(nil).FitPredict(tc.exceptions, tc.prodTrain, tc.prodPred)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFitPredictDeterministic(t *testing.T) {
	var exceptions []models.ExceptionRecord
	var prodTrain []models.ProductiveHoursRecord
	start := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		exceptions = append(exceptions, excep(d, "Overtime", "X"))
		if i%3 == 0 {
			exceptions = append(exceptions, excep(d, "Relief Not Found", "X"))
		}
		prodTrain = append(prodTrain, prod(d, "X", float64(30+i%5)))
	}
	var prodPred []models.ProductiveHoursRecord
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 1, i).Format("2006-01-02")
		prodPred = append(prodPred, prod(d, "X", 32))
	}

	first, err := NewPipeline(nil).FitPredict(exceptions, prodTrain, prodPred)
	require.NoError(t, err)
	second, err := NewPipeline(nil).FitPredict(exceptions, prodTrain, prodPred)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].DS, second[i].DS)
		assert.InDelta(t, first[i].YHat, second[i].YHat, 1e-12, fmt.Sprintf("row %d", i))
	}
}
