package models

// ExceptionRecord is one logged labor exception event.
type ExceptionRecord struct {
	ShiftDate       string `json:"shift_date"`
	EarningCategory string `json:"earning_category"`
	JobFamily       string `json:"job_family"`
}

// ProductiveHoursRecord is one shift entry with its productive hours.
type ProductiveHoursRecord struct {
	ShiftDate            string  `json:"shift_date"`
	JobFamilyDescription string  `json:"job_family_description"`
	Hours                float64 `json:"hours"`
}

// Prediction is one forecast row: expected urgent exception count for a date.
type Prediction struct {
	DS        string  `json:"ds"`
	YHat      float64 `json:"yhat"`
	JobFamily string  `json:"job_family"`
}

// PartitionResult reports the outcome of one job-family forecast.
type PartitionResult struct {
	JobFamily   string       `json:"job_family"`
	Predictions []Prediction `json:"predictions,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// ForecastRun is the full outcome of a forecast invocation across partitions.
type ForecastRun struct {
	Predictions []Prediction      `json:"predictions"`
	Partitions  []PartitionResult `json:"partitions"`
	GeneratedAt string            `json:"generated_at"`
	DurationMS  int64             `json:"duration_ms"`
}
