package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildcloner/internal"
	"guildcloner/internal/structures"
)

func testApp() *internal.App {
	conf := &structures.Config{
		Clone:  structures.CloneConfig{Delay: 2 * time.Second, Settings: true, Roles: true, Channels: false, Emoji: true},
		Backup: structures.BackupConfig{Dir: "snapshots"},
	}
	return internal.NewApp(nil, nil, nil, nil, conf, nil, nil, nil)
}

func parse(t *testing.T, args ...string) (*cobra.Command, *categoryFlags) {
	var c categoryFlags
	cmd := &cobra.Command{Use: "test"}
	c.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, &c
}

func TestCategoryFlags_ConfigDefaults(t *testing.T) {
	cmd, c := parse(t)

	job := c.job(cmd, testApp(), "1", "2")
	assert.Equal(t, "1", job.Source)
	assert.Equal(t, "2", job.Target)
	assert.Equal(t, 2*time.Second, job.Delay)
	assert.True(t, job.Options.Settings)
	assert.True(t, job.Options.Roles)
	assert.False(t, job.Options.Channels)
	assert.True(t, job.Options.Emoji)
	assert.Equal(t, "snapshots", job.Options.BackupPath)
}

func TestCategoryFlags_FlagsOverride(t *testing.T) {
	cmd, c := parse(t, "--channels", "--emoji=false", "--settings=false", "--delay", "250ms")

	job := c.job(cmd, testApp(), "1", "2")
	assert.False(t, job.Options.Settings)
	assert.True(t, job.Options.Roles)
	assert.True(t, job.Options.Channels)
	assert.False(t, job.Options.Emoji)
	assert.Equal(t, 250*time.Millisecond, job.Delay)
}

func TestVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "guildcloner dev")
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"clone", "backup", "restore", "version"} {
		assert.True(t, names[want], want)
	}
}

func TestCloneCmd_RequiresSourceAndTarget(t *testing.T) {
	cmd := newCloneCmd()
	cmd.SetArgs([]string{"--source", "1"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
}

func TestTargetFlags_NewTarget(t *testing.T) {
	var target targetFlags
	cmd := &cobra.Command{Use: "test"}
	target.register(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--new-target", "Copy"}))

	job := internal.Job{Source: "1"}
	target.apply(&job)
	assert.Empty(t, job.Target)
	assert.Equal(t, "Copy", job.Options.NewTarget)
}

func TestCloneCmd_TargetAndNewTargetExclusive(t *testing.T) {
	cmd := newCloneCmd()
	cmd.SetArgs([]string{"--source", "1", "--target", "2", "--new-target", "Copy"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new-target")
}

func TestRestoreCmd_RequiresSomeTarget(t *testing.T) {
	cmd := newRestoreCmd()
	cmd.SetArgs([]string{"--file", "backups"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new-target")
}
