package services

import (
	"time"

	"go.uber.org/atomic"

	"guildcloner/internal/models"
)

// ProgressReporterInterface receives count/label events from a run.
type ProgressReporterInterface interface {
	Phase(phase models.Phase, total int)
	Step(label string, outcome models.Outcome)
	Warn(msg string)
	Finish(report *models.ReplicationReport)
}

// Progress is a point-in-time view of a run.
type Progress struct {
	Phase     models.Phase              `json:"phase"`
	Total     int64                     `json:"total"`
	Done      int64                     `json:"done"`
	Failed    int64                     `json:"failed"`
	Warnings  int64                     `json:"warnings"`
	LastLabel string                    `json:"last_label"`
	Elapsed   string                    `json:"elapsed"`
	Report    *models.ReplicationReport `json:"report,omitempty"`
}

// Tracker records progress for readers on other goroutines (the status
// server). Writes come only from the replication goroutine.
type Tracker struct {
	phase     atomic.String
	total     atomic.Int64
	done      atomic.Int64
	failed    atomic.Int64
	warnings  atomic.Int64
	lastLabel atomic.String
	started   atomic.Time
	report    atomic.Pointer[models.ReplicationReport]
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.phase.Store(string(models.PhaseIdle))
	return t
}

func (t *Tracker) Phase(phase models.Phase, total int) {
	if t.started.Load().IsZero() {
		t.started.Store(time.Now())
	}
	t.phase.Store(string(phase))
	t.total.Store(int64(total))
	t.done.Store(0)
}

func (t *Tracker) Step(label string, outcome models.Outcome) {
	t.done.Inc()
	if outcome == models.OutcomeFailed {
		t.failed.Inc()
	}
	t.lastLabel.Store(label)
}

func (t *Tracker) Warn(_ string) {
	t.warnings.Inc()
}

func (t *Tracker) Finish(report *models.ReplicationReport) {
	t.phase.Store(string(models.PhaseDone))
	t.report.Store(report)
}

func (t *Tracker) Snapshot() Progress {
	p := Progress{
		Phase:     models.Phase(t.phase.Load()),
		Total:     t.total.Load(),
		Done:      t.done.Load(),
		Failed:    t.failed.Load(),
		Warnings:  t.warnings.Load(),
		LastLabel: t.lastLabel.Load(),
		Report:    t.report.Load(),
	}
	if started := t.started.Load(); !started.IsZero() {
		p.Elapsed = time.Since(started).Round(time.Second).String()
	}
	return p
}

// Reset returns the tracker to idle before a new run.
func (t *Tracker) Reset() {
	t.phase.Store(string(models.PhaseIdle))
	t.total.Store(0)
	t.done.Store(0)
	t.failed.Store(0)
	t.warnings.Store(0)
	t.lastLabel.Store("")
	t.started.Store(time.Time{})
	t.report.Store(nil)
}
