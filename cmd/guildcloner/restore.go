package main

import (
	"github.com/spf13/cobra"
)

func newRestoreCmd() *cobra.Command {
	var (
		categories categoryFlags
		file       string
		target     targetFlags
	)

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Rebuild the target server from a snapshot file",
		Long:  "--file accepts a snapshot file or a backup directory, in which case the newest snapshot is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			job := categories.job(cmd, app, "", "")
			target.apply(&job)
			job.Options.Restore = true
			job.Options.BackupPath = file

			_, err = app.Run(job)
			return err
		},
	}
	categories.register(cmd)
	cmd.Flags().StringVar(&file, "file", "", "Snapshot file or backup directory")
	target.register(cmd)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
