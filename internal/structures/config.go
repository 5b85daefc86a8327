package structures

import (
	"net/http"
	"time"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	Token      string
}

type DiscordConfig struct {
	Token string `yaml:"token" validate:"required"`
	Bot   bool   `yaml:"bot"`
}

type CloneConfig struct {
	Delay    time.Duration `yaml:"delay" validate:"min:0"`
	Settings bool          `yaml:"settings"`
	Roles    bool          `yaml:"roles"`
	Channels bool          `yaml:"channels"`
	Emoji    bool          `yaml:"emoji"`
}

type BackupConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	Compress bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type StatusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port" validate:"uint|max:65535"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName string
	Debug   bool
	Path    string
	Discord DiscordConfig `yaml:"discord"`
	Clone   CloneConfig   `yaml:"clone"`
	Backup  BackupConfig  `yaml:"backup"`
	Logger  LoggerConfig  `yaml:"logger"`
	Cache   CacheConfig   `yaml:"cache"`
	Status  StatusConfig  `yaml:"status"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Route is a status server endpoint. Name labels its metrics.
type Route struct {
	Name    string
	Url     string
	Handler http.Handler
}
