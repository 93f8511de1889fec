package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control the process wide log output.
type Options struct {
	// Level is a zerolog level name such as "debug" or "info".
	Level string
	// Format is "json" or "console".
	Format string
	// Out defaults to stderr so command output on stdout stays clean.
	Out io.Writer
	// File, when set, receives a copy of every log line with rotation.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	optsMu  sync.RWMutex
	opts    = Options{}
	logFile *lumberjack.Logger
)

// Configure sets the level and format used by loggers created afterwards.
func Configure(o Options) error {
	if o.Level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(o.Level))
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		zerolog.SetGlobalLevel(lvl)
	}
	switch o.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("unknown log format %s", o.Format)
	}
	var lj *lumberjack.Logger
	if o.File != "" {
		if dir := filepath.Dir(o.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("log file: %w", err)
			}
		}
		out := o.Out
		if out == nil {
			out = os.Stderr
		}
		lj = &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
		}
		o.Out = zerolog.MultiLevelWriter(out, lj)
	}
	optsMu.Lock()
	prev := logFile
	opts, logFile = o, lj
	optsMu.Unlock()
	if prev != nil {
		if err := prev.Close(); err != nil {
			return fmt.Errorf("close log file: %w", err)
		}
	}
	return nil
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger. Console output is used when the
// configured format is "console" or APP_ENV is "dev". All logs include the
// provided component field.
func NewZerologLogger(component string) Logger {
	optsMu.RLock()
	o := opts
	optsMu.RUnlock()
	out := o.Out
	if out == nil {
		out = os.Stderr
	}
	format := o.Format
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		format = "console"
	}
	var z zerolog.Logger
	if format == "console" {
		writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		z = zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
	} else {
		z = zerolog.New(out).With().Timestamp().Str("component", component).Logger()
	}
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
