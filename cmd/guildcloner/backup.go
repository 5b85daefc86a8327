package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	var (
		categories categoryFlags
		source     string
		dir        string
		every      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a snapshot of the source server to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			job := categories.job(cmd, app, source, "")
			job.Options.Backup = true
			withDefaultPath(&job.Options, dir)

			if every <= 0 {
				_, err = app.Run(job)
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.RunEvery(ctx, every, job)
		},
	}
	categories.register(cmd)
	cmd.Flags().StringVar(&source, "source", "", "Source server id")
	cmd.Flags().StringVar(&dir, "dir", "", "Backup directory (defaults to backup.dir)")
	cmd.Flags().DurationVar(&every, "every", 0, "Keep running and write a snapshot at this interval")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}
