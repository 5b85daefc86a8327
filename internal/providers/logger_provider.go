package providers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"guildcloner/internal/structures"
)

type TypeEnum int

const (
	TypeApp = iota
	TypeFetch
	TypeReplicate
	TypeStorage
	TypeStatus
)

var typeNames = map[TypeEnum]string{
	TypeApp:       "app",
	TypeFetch:     "fetch",
	TypeReplicate: "replicate",
	TypeStorage:   "storage",
	TypeStatus:    "status",
}

func (t TypeEnum) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "app"
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	logger zerolog.Logger
	file   *os.File
}

const logFileName = "guildcloner.log"

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}
	if conf.Debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	lp := &LogProvider{}

	if conf.Logger.Dir != "" {
		path := filepath.Join(conf.Logger.Dir, logFileName)
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		lp.file = file
		out = zerolog.MultiLevelWriter(out, file)
	}

	lp.logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return lp, nil
}

func (l *LogProvider) event(e *zerolog.Event, t TypeEnum, format string, args ...interface{}) {
	e.Str("type", t.String()).Msgf(format, args...)
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.event(l.logger.Error(), t, format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.event(l.logger.Warn(), t, format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.event(l.logger.Debug(), t, format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.event(l.logger.Info(), t, format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.event(l.logger.Fatal(), t, format, args...)
}

func (l *LogProvider) Close() {
	if l.file != nil {
		_ = l.file.Sync()
		_ = l.file.Close()
	}
}
