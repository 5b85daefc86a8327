package providers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"guildcloner/internal/models"
	"guildcloner/internal/structures"
)

const AppName = "guildcloner"

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.bot", true)
	v.SetDefault("clone.delay", time.Second)
	v.SetDefault("clone.settings", true)
	v.SetDefault("clone.roles", true)
	v.SetDefault("clone.channels", true)
	v.SetDefault("clone.emoji", false)
	v.SetDefault("backup.dir", models.DefaultBackupPath)
	v.SetDefault("backup.compress", false)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 64)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("status.host", "127.0.0.1")
	v.SetDefault("status.port", 9310)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")
	}

	v.BindEnv("discord.token", "GUILDCLONER_TOKEN")
	v.BindEnv("clone.delay", "GUILDCLONER_DELAY")
	v.BindEnv("logger.level", "GUILDCLONER_LOG_LEVEL")
	v.BindEnv("backup.dir", "GUILDCLONER_BACKUP_DIR")

	if flags.ConfigPath != "" {
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err := v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if flags.Token != "" {
		conf.Discord.Token = flags.Token
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// CloneOptions builds the default run options from the clone and backup
// sections.
func CloneOptions(conf *structures.Config) models.Options {
	return models.Options{
		Settings:   conf.Clone.Settings,
		Roles:      conf.Clone.Roles,
		Channels:   conf.Clone.Channels,
		Emoji:      conf.Clone.Emoji,
		BackupPath: conf.Backup.Dir,
	}
}
