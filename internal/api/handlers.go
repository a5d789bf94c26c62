package api

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"urgentcast/internal/config"
	"urgentcast/internal/dataset"
	"urgentcast/internal/feature"
	"urgentcast/internal/forecast"
	"urgentcast/internal/metrics"
	"urgentcast/internal/models"
	"urgentcast/internal/state"
)

const MaxUploadSize = 100 * 1024 * 1024 // 100MB

type Handler struct {
	Config config.Config
	State  *state.AppState
	Log    *zap.Logger
}

func NewHandler(cfg config.Config, st *state.AppState, log *zap.Logger) *Handler {
	return &Handler{Config: cfg, State: st, Log: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Post("/api/forecast", h.ForecastUpload)
	r.Post("/api/forecast/rerun", h.ForecastRerun)
	r.Get("/api/forecast/latest", h.LatestRun)
	r.Post("/api/db/forecast", h.ForecastFromDB)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ForecastUpload takes the three input tables as multipart CSV files
// ("exceptions", "productive", "productive_pred"), runs every configured
// partition, and returns the full run.
func (h *Handler) ForecastUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		http.Error(w, "upload too large", http.StatusBadRequest)
		return
	}

	exceptions, err := withFormFile(r, "exceptions", func(f multipart.File) ([]models.ExceptionRecord, error) {
		return dataset.ReadExceptions(f)
	})
	if err != nil {
		h.inputError(w, err)
		return
	}
	productive, err := withFormFile(r, "productive", func(f multipart.File) ([]models.ProductiveHoursRecord, error) {
		return dataset.ReadProductiveHours(f, "productive")
	})
	if err != nil {
		h.inputError(w, err)
		return
	}
	productivePred, err := withFormFile(r, "productive_pred", func(f multipart.File) ([]models.ProductiveHoursRecord, error) {
		return dataset.ReadProductiveHours(f, "productive_pred")
	})
	if err != nil {
		h.inputError(w, err)
		return
	}

	h.State.SetInputs(exceptions, productive, productivePred)
	h.runAndRespond(w, exceptions, productive, productivePred)
}

// ForecastRerun repeats the forecast on the last uploaded tables.
func (h *Handler) ForecastRerun(w http.ResponseWriter, r *http.Request) {
	exceptions, productive, productivePred := h.State.Inputs()
	if exceptions == nil {
		http.Error(w, "no input tables loaded yet", http.StatusConflict)
		return
	}
	h.runAndRespond(w, exceptions, productive, productivePred)
}

// LatestRun returns the most recent forecast run.
func (h *Handler) LatestRun(w http.ResponseWriter, r *http.Request) {
	run := h.State.LastRun()
	if run == nil {
		http.Error(w, "no forecast run yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// ForecastFromDB loads the configured Postgres tables and runs the forecast.
func (h *Handler) ForecastFromDB(w http.ResponseWriter, r *http.Request) {
	src := dataset.NewPostgresSource()
	if err := src.Connect(h.Config.Postgres); err != nil {
		h.Log.Error("postgres connect failed", zap.Error(err))
		http.Error(w, "database connection failed", http.StatusBadGateway)
		return
	}
	defer src.Close()

	exceptions, err := src.LoadExceptions(h.Config.ExceptionsTable)
	if err != nil {
		h.inputError(w, err)
		return
	}
	productive, err := src.LoadProductiveHours(h.Config.ProductiveTable, h.Config.ProductiveHoursField)
	if err != nil {
		h.inputError(w, err)
		return
	}
	productivePred, err := src.LoadProductiveHours(h.Config.ProductivePredTable, h.Config.ProductiveHoursField)
	if err != nil {
		h.inputError(w, err)
		return
	}

	h.State.SetInputs(exceptions, productive, productivePred)
	h.runAndRespond(w, exceptions, productive, productivePred)
}

func (h *Handler) runAndRespond(w http.ResponseWriter, exceptions []models.ExceptionRecord, productive, productivePred []models.ProductiveHoursRecord) {
	runner := forecast.NewRunner(h.Config.Partitions, h.Config.Training, h.Config.UrgentCategories)
	run := runner.Run(exceptions, productive, productivePred)

	failures := 0
	for _, p := range run.Partitions {
		if p.Error != "" {
			failures++
			h.Log.Warn("partition failed", zap.String("job_family", p.JobFamily), zap.String("error", p.Error))
		}
	}
	metrics.ObserveRun(failures, len(run.Predictions), float64(run.DurationMS)/1000)

	h.State.SetLastRun(run)
	h.Log.Info("forecast run complete",
		zap.Int("predictions", len(run.Predictions)),
		zap.Int("partitions", len(run.Partitions)),
		zap.Int("failures", failures))
	writeJSON(w, http.StatusOK, run)
}

// inputError maps the error taxonomy onto status codes: bad input tables are
// the client's problem, anything else is ours.
func (h *Handler) inputError(w http.ResponseWriter, err error) {
	var missing *dataset.MissingColumnError
	var rowErr *dataset.RowError
	var upErr *uploadError
	switch {
	case errors.As(err, &missing), errors.As(err, &rowErr), errors.As(err, &upErr), errors.Is(err, feature.ErrBadDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.Log.Error("loading input table failed", zap.Error(err))
		http.Error(w, "failed to load input table", http.StatusInternalServerError)
	}
}

type uploadError struct {
	name string
}

func (e *uploadError) Error() string {
	return "missing upload file: " + e.name
}

func withFormFile[T any](r *http.Request, name string, read func(multipart.File) (T, error)) (T, error) {
	var zero T
	f, _, err := r.FormFile(name)
	if err != nil {
		return zero, &uploadError{name: name}
	}
	defer f.Close()
	return read(f)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
