package main

import (
	"github.com/spf13/cobra"
)

func newCloneCmd() *cobra.Command {
	var (
		categories categoryFlags
		source     string
		target     targetFlags
		backup     bool
		dir        string
	)

	cmd := &cobra.Command{
		Use:   "clone",
		Short: "Copy the structure of the source server onto the target server",
		Long: "Wipes the roles and channels of the target server and rebuilds them from the source. " +
			"Messages, members and bans are never copied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			job := categories.job(cmd, app, source, "")
			target.apply(&job)
			job.Options.Backup = backup
			withDefaultPath(&job.Options, dir)

			_, err = app.Run(job)
			return err
		},
	}
	categories.register(cmd)
	cmd.Flags().StringVar(&source, "source", "", "Source server id")
	target.register(cmd)
	cmd.Flags().BoolVar(&backup, "backup", false, "Also write a snapshot of the source")
	cmd.Flags().StringVar(&dir, "dir", "", "Backup directory (defaults to backup.dir)")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}
