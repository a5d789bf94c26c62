package forecast

import "fmt"

// PartitionError marks a job-family partition whose pipeline run failed.
type PartitionError struct {
	JobFamily string
	Err       error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %s: %v", e.JobFamily, e.Err)
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}

// Error kinds the orchestration layer can distinguish.
var (
	ErrNoTrainingData = fmt.Errorf("no training rows")
	ErrNoPredictDates = fmt.Errorf("no shift dates to predict")
)
