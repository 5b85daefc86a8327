package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"guildcloner/internal/models"
	"guildcloner/internal/services"
)

type HealthController struct {
	tracker   *services.Tracker
	startTime time.Time
}

type healthResponse struct {
	Status        string       `json:"status"`
	Phase         models.Phase `json:"phase"`
	Uptime        string       `json:"uptime"`
	UptimeSeconds float64      `json:"uptime_seconds"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Phase:         hc.tracker.Snapshot().Phase,
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(tracker *services.Tracker) *HealthController {
	return &HealthController{
		tracker:   tracker,
		startTime: time.Now(),
	}
}
