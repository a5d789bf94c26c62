package state

import (
	"sync"

	"urgentcast/internal/models"
)

// AppState holds what the API needs to serve between requests: the most
// recent forecast run and the last uploaded input tables.
type AppState struct {
	mu sync.RWMutex

	lastRun *models.ForecastRun

	exceptions     []models.ExceptionRecord
	productive     []models.ProductiveHoursRecord
	productivePred []models.ProductiveHoursRecord
}

func New() *AppState {
	return &AppState{}
}

// SetLastRun stores the latest forecast run result.
func (s *AppState) SetLastRun(run *models.ForecastRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = run
}

// LastRun returns the latest forecast run, or nil before the first run.
func (s *AppState) LastRun() *models.ForecastRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// SetInputs stores the loaded input tables for later re-runs.
func (s *AppState) SetInputs(exceptions []models.ExceptionRecord, productive, productivePred []models.ProductiveHoursRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exceptions = exceptions
	s.productive = productive
	s.productivePred = productivePred
}

// Inputs returns the stored input tables.
func (s *AppState) Inputs() ([]models.ExceptionRecord, []models.ProductiveHoursRecord, []models.ProductiveHoursRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exceptions, s.productive, s.productivePred
}
