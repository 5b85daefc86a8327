package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"guildcloner/internal/providers"
	"guildcloner/internal/services"
)

// ProgressController exposes the live state of the current or last run.
type ProgressController struct {
	logger  providers.Logger
	tracker *services.Tracker
}

func NewProgressController(logger providers.Logger, tracker *services.Tracker) *ProgressController {
	return &ProgressController{
		logger:  logger,
		tracker: tracker,
	}
}

func (pc *ProgressController) writeJSON(w http.ResponseWriter, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		pc.logger.Errorf(providers.TypeStatus, "Unable to encode response: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (pc *ProgressController) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress := pc.tracker.Snapshot()
	progress.Report = nil
	pc.writeJSON(w, progress)
}

// GetReport returns the report of the last finished run.
func (pc *ProgressController) GetReport(w http.ResponseWriter, r *http.Request) {
	report := pc.tracker.Snapshot().Report
	if report == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	pc.writeJSON(w, report)
}
