package main

import (
	"time"

	"github.com/spf13/cobra"

	"guildcloner/internal"
	"guildcloner/internal/models"
	"guildcloner/internal/providers"
)

// categoryFlags selects what a run copies. Unset flags fall back to the
// clone section of the config.
type categoryFlags struct {
	settings bool
	roles    bool
	channels bool
	emoji    bool
	delay    time.Duration
}

func (c *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&c.settings, "settings", true, "Copy name, icon, banner and moderation settings")
	cmd.Flags().BoolVar(&c.roles, "roles", true, "Copy roles")
	cmd.Flags().BoolVar(&c.channels, "channels", true, "Copy categories and channels")
	cmd.Flags().BoolVar(&c.emoji, "emoji", false, "Copy custom emoji")
	cmd.Flags().DurationVar(&c.delay, "delay", time.Second, "Pause between remote mutations")
}

// job builds the engine invocation from the config defaults and the flags
// given on the command line.
func (c *categoryFlags) job(cmd *cobra.Command, app *internal.App, source, target string) internal.Job {
	conf := app.Config()
	opts := providers.CloneOptions(conf)
	job := internal.Job{Source: source, Target: target, Delay: conf.Clone.Delay, Options: opts}

	override := func(name string, dst *bool, val bool) {
		if cmd.Flags().Changed(name) {
			*dst = val
		}
	}
	override("settings", &job.Options.Settings, c.settings)
	override("roles", &job.Options.Roles, c.roles)
	override("channels", &job.Options.Channels, c.channels)
	override("emoji", &job.Options.Emoji, c.emoji)
	if cmd.Flags().Changed("delay") {
		job.Delay = c.delay
	}
	return job
}

// targetFlags selects the guild a run replicates into: an existing one by id
// or a new one created under the given name.
type targetFlags struct {
	id      string
	newName string
}

func (t *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.id, "target", "", "Target server id")
	cmd.Flags().StringVar(&t.newName, "new-target", "", "Create a new server with this name and use it as the target")
	cmd.MarkFlagsOneRequired("target", "new-target")
	cmd.MarkFlagsMutuallyExclusive("target", "new-target")
}

func (t *targetFlags) apply(job *internal.Job) {
	job.Target = t.id
	job.Options.NewTarget = t.newName
}

func withDefaultPath(opts *models.Options, path string) {
	if path != "" {
		opts.BackupPath = path
	}
}
