package providers

import (
	"testing"
	"time"

	"guildcloner/internal/structures"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Discord: structures.DiscordConfig{
			Token: "token",
			Bot:   true,
		},
		Clone: structures.CloneConfig{
			Delay:    time.Second,
			Settings: true,
			Roles:    true,
			Channels: true,
		},
		Backup: structures.BackupConfig{
			Dir: "/tmp/backups",
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
		},
		Status: structures.StatusConfig{
			Host: "127.0.0.1",
			Port: 9310,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyToken(t *testing.T) {
	c := validConfig()
	c.Discord.Token = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyBackupDir(t *testing.T) {
	c := validConfig()
	c.Backup.Dir = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_StatusEnabledWithoutPort(t *testing.T) {
	c := validConfig()
	c.Status.Enabled = true
	c.Status.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
