// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Output string // "stdout", "stderr", or file path
	Level  string // "debug", "info", "warn", "error"
	File   string // log file path (used when Output is not stdout/stderr)
}

// Init initializes the global zerolog logger with the given configuration.
func Init(cfg Config) error {
	level := parseLevel(cfg.Level)

	writer, console, err := openWriter(cfg)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.CallerMarshalFunc = shortCaller

	logger := New(writer, console, level)
	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	return nil
}

// New builds a logger writing to w. Console loggers are colorized;
// the others emit one JSON object per line.
func New(w io.Writer, console bool, level zerolog.Level) zerolog.Logger {
	var ctx zerolog.Context
	if console {
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
		if level == zerolog.DebugLevel {
			cw.PartsOrder = []string{"time", "level", "message", "caller"}
			cw.FormatCaller = func(i interface{}) string {
				s, _ := i.(string)
				return "(" + s + ")"
			}
		}
		ctx = zerolog.New(cw).With().Timestamp()
	} else {
		ctx = zerolog.New(w).With().Timestamp()
	}

	// Add Caller only for DEBUG level
	if level == zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger().Level(level)
}

func openWriter(cfg Config) (io.Writer, bool, error) {
	switch strings.ToLower(cfg.Output) {
	case "stdout", "":
		return os.Stdout, true, nil
	case "stderr":
		return os.Stderr, true, nil
	}

	path := cfg.File
	if path == "" {
		path = cfg.Output
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, false, err
	}
	return f, false, nil
}

// shortCaller keeps the parent directory and file name only.
func shortCaller(pc uintptr, file string, line int) string {
	parts := strings.Split(file, string(filepath.Separator))
	if len(parts) > 1 {
		return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
