package forecast

import (
	"fmt"
	"math"

	"urgentcast/internal/feature"
	"urgentcast/internal/models"
	"urgentcast/internal/regress"
)

// Pipeline runs one fit/predict cycle: train on historical exceptions and
// productive hours, predict daily urgent counts for a future period's shift
// dates. Each invocation uses a fresh encoder and model; nothing is shared
// across calls, so independent partitions can run in parallel.
type Pipeline struct {
	builder *feature.Builder
	labeler *feature.Labeler
}

// NewPipeline builds a pipeline counting the given urgent categories
// (defaulting when empty).
func NewPipeline(urgentCategories []string) *Pipeline {
	return &Pipeline{
		builder: feature.NewBuilder(),
		labeler: feature.NewLabeler(urgentCategories),
	}
}

// FitPredict is the three-stage cycle. Stage 1 builds training features from
// exception-log dates with a fresh encoder and labels aligned to them. Stage 2
// builds prediction features from the future shift dates, reusing that same
// fitted encoder. Stage 3 sanitizes all matrices, fits ordinary least squares,
// predicts, and clamps negatives to zero. Returns one prediction per distinct
// future shift date.
func (p *Pipeline) FitPredict(exceptions []models.ExceptionRecord, prodTrain, prodPred []models.ProductiveHoursRecord) ([]models.Prediction, error) {
	if len(exceptions) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(prodPred) == 0 {
		return nil, ErrNoPredictDates
	}

	enc := feature.NewCalendarEncoder()

	train, err := p.builder.Build(exceptions, prodTrain, feature.Train, enc)
	if err != nil {
		return nil, fmt.Errorf("training features: %w", err)
	}
	y := p.labeler.Build(exceptions, train.Dates)

	pred, err := p.builder.Build(nil, prodPred, feature.Predict, enc)
	if err != nil {
		return nil, fmt.Errorf("prediction features: %w", err)
	}

	sanitize(train.X)
	sanitizeVec(y)
	sanitize(pred.X)

	model := regress.NewLinear()
	if err := model.Fit(train.X, y); err != nil {
		return nil, err
	}
	yhat := model.Predict(pred.X)

	out := make([]models.Prediction, len(pred.Dates))
	for i, d := range pred.Dates {
		v := yhat[i]
		if v < 0 || math.IsNaN(v) {
			v = 0
		}
		out[i] = models.Prediction{DS: d, YHat: v}
	}
	return out, nil
}

// sanitize replaces NaN and infinities with zero in place. Zero is the
// meaningful default here: no hours logged, no exceptions observed.
func sanitize(x [][]float64) {
	for _, row := range x {
		sanitizeVec(row)
	}
}

func sanitizeVec(v []float64) {
	for i, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			v[i] = 0
		}
	}
}
