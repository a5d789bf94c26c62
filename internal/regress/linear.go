package regress

import (
	"fmt"
	"math"
)

// ErrDegenerateFit reports a training matrix that cannot support a least
// squares fit at all: no rows, no columns, mismatched labels, or a normal
// system with no usable pivot.
var ErrDegenerateFit = fmt.Errorf("degenerate least squares fit")

// Linear is an ordinary least squares model with intercept. Fitted once,
// used once; it keeps no state beyond its weights.
type Linear struct {
	Intercept float64
	Coef      []float64
}

func NewLinear() *Linear {
	return &Linear{}
}

// Fit solves the normal equations for X (rows = samples) against y. One-hot
// feature blocks are exactly collinear with the intercept, so a column that
// yields no pivot gets a zero coefficient instead of failing the fit, and
// predictions stay well defined. Inputs must already be finite.
func (m *Linear) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 || len(y) != n {
		return fmt.Errorf("%w: %d rows, %d labels", ErrDegenerateFit, n, len(y))
	}
	cols := len(X[0])
	if cols == 0 {
		return fmt.Errorf("%w: zero feature columns", ErrDegenerateFit)
	}
	for _, row := range X {
		if len(row) != cols {
			return fmt.Errorf("%w: ragged feature matrix", ErrDegenerateFit)
		}
	}

	// Augment with an intercept column, then form A = X'X and b = X'y.
	p := cols + 1
	a := make([][]float64, p)
	b := make([]float64, p)
	for i := range a {
		a[i] = make([]float64, p)
	}
	for r := 0; r < n; r++ {
		for i := 0; i < p; i++ {
			xi := augmented(X[r], i)
			b[i] += xi * y[r]
			for j := i; j < p; j++ {
				a[i][j] += xi * augmented(X[r], j)
			}
		}
	}
	for i := 0; i < p; i++ {
		for j := 0; j < i; j++ {
			a[i][j] = a[j][i]
		}
	}

	w, solved, err := solve(a, b)
	if err != nil {
		return err
	}
	if solved == 0 {
		return fmt.Errorf("%w: no usable pivot", ErrDegenerateFit)
	}

	m.Intercept = w[0]
	m.Coef = w[1:]
	return nil
}

// Predict applies the fitted weights to each row of X.
func (m *Linear) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for r, row := range X {
		yhat := m.Intercept
		for j, v := range row {
			if j < len(m.Coef) {
				yhat += m.Coef[j] * v
			}
		}
		out[r] = yhat
	}
	return out
}

func augmented(row []float64, i int) float64 {
	if i == 0 {
		return 1
	}
	return row[i-1]
}

// solve runs Gauss-Jordan elimination with partial pivoting on a*w = b.
// A column whose best pivot is below tolerance is treated as dependent and
// its weight fixed to zero. Returns the weights and the pivot count.
func solve(a [][]float64, b []float64) ([]float64, int, error) {
	p := len(a)

	maxDiag := 0.0
	for i := 0; i < p; i++ {
		if d := math.Abs(a[i][i]); d > maxDiag {
			maxDiag = d
		}
	}
	tol := 1e-9 * maxDiag
	if tol < 1e-12 {
		tol = 1e-12
	}

	dead := make([]bool, p)
	solved := 0
	for k := 0; k < p; k++ {
		// Partial pivot: largest magnitude in column k at or below row k.
		pivot := k
		for r := k + 1; r < p; r++ {
			if math.Abs(a[r][k]) > math.Abs(a[pivot][k]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][k]) <= tol {
			dead[k] = true
			continue
		}
		a[k], a[pivot] = a[pivot], a[k]
		b[k], b[pivot] = b[pivot], b[k]

		d := a[k][k]
		for j := 0; j < p; j++ {
			a[k][j] /= d
		}
		b[k] /= d

		for r := 0; r < p; r++ {
			if r == k || a[r][k] == 0 {
				continue
			}
			f := a[r][k]
			for j := 0; j < p; j++ {
				a[r][j] -= f * a[k][j]
			}
			b[r] -= f * b[k]
		}
		solved++
	}

	w := make([]float64, p)
	for k := 0; k < p; k++ {
		if dead[k] {
			continue
		}
		w[k] = b[k]
		if math.IsNaN(w[k]) || math.IsInf(w[k], 0) {
			return nil, 0, fmt.Errorf("%w: non-finite weight", ErrDegenerateFit)
		}
	}
	return w, solved, nil
}
