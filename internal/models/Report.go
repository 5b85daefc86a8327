package models

import "time"

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseFetching Phase = "fetching"
	PhaseSettings Phase = "settings"
	PhaseClearing Phase = "clearing"
	PhaseRoles    Phase = "roles"
	PhaseChannels Phase = "channels"
	PhaseEmoji    Phase = "emoji"
	PhaseDone     Phase = "done"
)

// Outcome is the result of a single per-entity remote operation.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Tally counts outcomes for one category. For the clearing tally Succeeded
// counts deletions.
type Tally struct {
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func (t *Tally) Record(o Outcome) {
	switch o {
	case OutcomeCreated:
		t.Succeeded++
	case OutcomeSkipped:
		t.Skipped++
	default:
		t.Failed++
	}
}

func (t Tally) Attempts() int {
	return t.Succeeded + t.Skipped + t.Failed
}

type ReplicationReport struct {
	Settings         Tally     `json:"settings"`
	Cleared          Tally     `json:"cleared"`
	Roles            Tally     `json:"roles"`
	Channels         Tally     `json:"channels"`
	Emoji            Tally     `json:"emoji"`
	HierarchyApplied bool      `json:"hierarchy_applied"`
	Warnings         []string  `json:"warnings"`
	BackupFile       string    `json:"backup_file,omitempty"`
	TargetID         string    `json:"target_id,omitempty"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

func NewReplicationReport(now time.Time) *ReplicationReport {
	return &ReplicationReport{StartedAt: now}
}

func (r *ReplicationReport) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *ReplicationReport) Failures() int {
	return r.Settings.Failed + r.Cleared.Failed + r.Roles.Failed + r.Channels.Failed + r.Emoji.Failed
}
