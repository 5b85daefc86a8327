// Package main is the entry point of the guildcloner CLI.
package main

import (
	"github.com/spf13/cobra"

	"guildcloner/internal"
	"guildcloner/internal/di"
	"guildcloner/internal/structures"
)

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:           "guildcloner",
	Short:         "Replicate the structure of one Discord server onto another",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Run executes CLI.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}

	return 0
}

func newApp() (*internal.App, error) {
	return di.InitApp(&flags)
}

func init() {
	rootCmd.AddCommand(newCloneCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newRestoreCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.Token, "token", "", "Discord token (overrides config and GUILDCLONER_TOKEN)")
}
