package regress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitExactLine(t *testing.T) {
	// y = 2x + 1
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{3, 5, 7, 9}

	m := NewLinear()
	require.NoError(t, m.Fit(X, y))

	assert.InDelta(t, 1.0, m.Intercept, 1e-9)
	require.Len(t, m.Coef, 1)
	assert.InDelta(t, 2.0, m.Coef[0], 1e-9)

	preds := m.Predict([][]float64{{10}, {0}})
	assert.InDelta(t, 21.0, preds[0], 1e-9)
	assert.InDelta(t, 1.0, preds[1], 1e-9)
}

func TestFitTwoFeatures(t *testing.T) {
	// y = 3a - b + 2
	X := [][]float64{{1, 0}, {0, 1}, {1, 1}, {2, 1}, {2, 3}}
	y := []float64{5, 1, 4, 7, 5}

	m := NewLinear()
	require.NoError(t, m.Fit(X, y))

	assert.InDelta(t, 2.0, m.Intercept, 1e-9)
	assert.InDelta(t, 3.0, m.Coef[0], 1e-9)
	assert.InDelta(t, -1.0, m.Coef[1], 1e-9)
}

func TestFitCanGoNegative(t *testing.T) {
	// The model itself is unconstrained; clamping is the pipeline's job.
	X := [][]float64{{1}, {2}, {3}}
	y := []float64{-2, -4, -6}

	m := NewLinear()
	require.NoError(t, m.Fit(X, y))

	preds := m.Predict([][]float64{{10}})
	assert.InDelta(t, -20.0, preds[0], 1e-9)
}

func TestFitCollinearColumns(t *testing.T) {
	// Second column duplicates the first; third is all zeros. Both are
	// dependent and must get zero weight without failing the fit.
	X := [][]float64{{1, 1, 0}, {2, 2, 0}, {3, 3, 0}, {4, 4, 0}}
	y := []float64{3, 5, 7, 9}

	m := NewLinear()
	require.NoError(t, m.Fit(X, y))

	preds := m.Predict(X)
	for i, want := range y {
		assert.InDelta(t, want, preds[i], 1e-9)
	}
	assert.InDelta(t, 0.0, m.Coef[1], 1e-9)
	assert.InDelta(t, 0.0, m.Coef[2], 1e-9)
}

func TestFitDegenerateInputs(t *testing.T) {
	tests := map[string]struct {
		X [][]float64
		y []float64
	}{
		"no rows":           {X: nil, y: nil},
		"no columns":        {X: [][]float64{{}}, y: []float64{1}},
		"mismatched labels": {X: [][]float64{{1}, {2}}, y: []float64{1}},
		"ragged matrix":     {X: [][]float64{{1, 2}, {3}}, y: []float64{1, 2}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := NewLinear().Fit(tc.X, tc.y)
			assert.ErrorIs(t, err, ErrDegenerateFit)
		})
	}
}

func TestFitConstantLabels(t *testing.T) {
	// A constant target is fine: intercept carries it.
	X := [][]float64{{1}, {2}, {3}}
	y := []float64{4, 4, 4}

	m := NewLinear()
	require.NoError(t, m.Fit(X, y))

	preds := m.Predict([][]float64{{100}})
	assert.InDelta(t, 4.0, preds[0], 1e-9)
}
