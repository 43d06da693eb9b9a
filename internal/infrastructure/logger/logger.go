package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the global logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console (default) or json
	Output string // stdout (default), stderr or a file path

	// File rotation, only used when Output is a file path.
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// Setup 使用默认配置初始化全局 logger（控制台输出，info 级别）
func Setup() {
	_ = Configure(Options{})
}

// Configure replaces the global zerolog logger.
func Configure(opts Options) error {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return err
	}

	out, err := openOutput(opts)
	if err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "console", "text":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: !isTerminal(opts.Output)}
	case "json":
	default:
		return fmt.Errorf("invalid log format %q", opts.Format)
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

func openOutput(opts Options) (io.Writer, error) {
	switch strings.TrimSpace(opts.Output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}
	return &lumberjack.Logger{
		Filename:   opts.Output,
		MaxSize:    maxSize,
		MaxAge:     opts.MaxAgeDays,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}, nil
}

func isTerminal(output string) bool {
	switch strings.TrimSpace(output) {
	case "", "stdout", "stderr":
		return true
	}
	return false
}
