package models

const DefaultBackupPath = "backups"

// Options selects which structural categories a run touches and whether the
// snapshot goes through a backup file.
type Options struct {
	Settings   bool   `json:"settings"`
	Roles      bool   `json:"roles"`
	Channels   bool   `json:"channels"`
	Emoji      bool   `json:"emoji"`
	Backup     bool   `json:"backup"`
	Restore    bool   `json:"restore"`
	BackupPath string `json:"backup_path"`
	// NewTarget, when set, names a guild the run creates and uses as the
	// target.
	NewTarget string `json:"new_target,omitempty"`
}

func DefaultOptions() Options {
	return Options{
		Settings:   true,
		Roles:      true,
		Channels:   true,
		Emoji:      false,
		BackupPath: DefaultBackupPath,
	}
}

// HasTarget reports whether the run replicates onto a guild, given the
// target id from the command line.
func (o Options) HasTarget(targetID string) bool {
	return targetID != "" || o.NewTarget != ""
}

// ClearsTarget reports whether the run wipes existing roles and channels.
func (o Options) ClearsTarget() bool {
	return o.Roles || o.Channels
}
