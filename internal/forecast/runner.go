package forecast

import (
	"time"

	"urgentcast/internal/models"
)

// Partition pairs an exception-table job family with its productive-hours
// description, e.g. "DC1000" / "Registered Nurse-DC1".
type Partition struct {
	JobFamily      string `json:"job_family" yaml:"job_family"`
	ProductiveDesc string `json:"productive_description" yaml:"productive_description"`
}

// DateRange is an inclusive shift-date range; an empty bound is open.
type DateRange struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

func (r DateRange) contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

// Window filters training data by shift date before partitioning. Dates
// falling in any exclude range are dropped; an empty window keeps everything.
type Window struct {
	ExcludeRanges []DateRange `json:"exclude_ranges" yaml:"exclude_ranges"`
}

func (w Window) keep(date string) bool {
	for _, r := range w.ExcludeRanges {
		if r.contains(date) {
			return false
		}
	}
	return true
}

// Runner executes one independent fit/predict cycle per configured partition.
type Runner struct {
	Partitions []Partition
	Window     Window
	Urgent     []string
}

func NewRunner(partitions []Partition, window Window, urgent []string) *Runner {
	return &Runner{Partitions: partitions, Window: window, Urgent: urgent}
}

// Run filters the inputs per partition, runs the pipeline for each, attaches
// the job family to its predictions, and concatenates. A failed partition is
// recorded in its PartitionResult and does not stop the others.
func (r *Runner) Run(exceptions []models.ExceptionRecord, prodTrain, prodPred []models.ProductiveHoursRecord) *models.ForecastRun {
	start := time.Now()
	run := &models.ForecastRun{
		Predictions: []models.Prediction{},
		GeneratedAt: start.UTC().Format(time.RFC3339),
	}

	excepWindowed := make([]models.ExceptionRecord, 0, len(exceptions))
	for _, rec := range exceptions {
		if r.Window.keep(rec.ShiftDate) {
			excepWindowed = append(excepWindowed, rec)
		}
	}
	prodWindowed := make([]models.ProductiveHoursRecord, 0, len(prodTrain))
	for _, rec := range prodTrain {
		if r.Window.keep(rec.ShiftDate) {
			prodWindowed = append(prodWindowed, rec)
		}
	}

	for _, part := range r.Partitions {
		var excep []models.ExceptionRecord
		for _, rec := range excepWindowed {
			if rec.JobFamily == part.JobFamily {
				excep = append(excep, rec)
			}
		}
		var train, pred []models.ProductiveHoursRecord
		for _, rec := range prodWindowed {
			if rec.JobFamilyDescription == part.ProductiveDesc {
				train = append(train, rec)
			}
		}
		for _, rec := range prodPred {
			if rec.JobFamilyDescription == part.ProductiveDesc {
				pred = append(pred, rec)
			}
		}

		result := models.PartitionResult{JobFamily: part.JobFamily}
		preds, err := NewPipeline(r.Urgent).FitPredict(excep, train, pred)
		if err != nil {
			perr := &PartitionError{JobFamily: part.JobFamily, Err: err}
			result.Error = perr.Error()
		} else {
			for i := range preds {
				preds[i].JobFamily = part.JobFamily
			}
			result.Predictions = preds
			run.Predictions = append(run.Predictions, preds...)
		}
		run.Partitions = append(run.Partitions, result)
	}

	run.DurationMS = time.Since(start).Milliseconds()
	return run
}
