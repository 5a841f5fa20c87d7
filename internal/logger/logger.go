// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	defaultTimeFormat = "2006/01/02 15:04:05"

	LevelTrace = slog.Level(-8)

	minimumVerbosityCountAddSource = 3

	JSONFormatLabel    = "json"
	TextFormatLabel    = "text"
	DefaultFormatLabel = "default"
)

type LogFormat int

const (
	DefaultFormat LogFormat = iota
	JSONFormat
	TextFormat
)

var (
	// Logger is the process logger. Commands and libraries log through the
	// package level helpers, which write to it.
	Logger *slog.Logger

	isDebugMode bool

	LevelNames = map[slog.Leveler]string{
		LevelTrace: "TRACE",
	}

	LogFormats = map[string]LogFormat{
		JSONFormatLabel:    JSONFormat,
		TextFormatLabel:    TextFormat,
		DefaultFormatLabel: DefaultFormat,
	}
)

// LoggerOptions configure the process logger.
type LoggerOptions struct {
	// Verbosity is the number of -v flags given.
	Verbosity int
	LogFormat string

	// Output defaults to stderr, so reports written to stdout stay parseable.
	Output io.Writer
}

func init() {
	Logger = slog.New(newHandler(os.Stderr, handlerOptions(new(slog.LevelVar), false, DefaultFormat)))
}

// SetupLogger replaces the process logger according to the given options.
func SetupLogger(opts LoggerOptions) error {
	if opts.LogFormat == "" {
		opts.LogFormat = DefaultFormatLabel
	}
	format, ok := LogFormats[opts.LogFormat]
	if !ok {
		return fmt.Errorf("unrecognized log format %q", opts.LogFormat)
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := new(slog.LevelVar)
	switch {
	case opts.Verbosity == 1:
		level.Set(slog.LevelDebug)
	case opts.Verbosity > 1:
		level.Set(LevelTrace)
	}
	handlerOpts := handlerOptions(level, opts.Verbosity >= minimumVerbosityCountAddSource, format)

	switch format {
	case JSONFormat:
		Logger = slog.New(slog.NewJSONHandler(out, handlerOpts))
	case TextFormat:
		Logger = slog.New(slog.NewTextHandler(out, handlerOpts))
	default:
		Logger = slog.New(newHandler(out, handlerOpts))
	}
	slog.SetDefault(Logger)

	isDebugMode = opts.Verbosity > 0
	if isDebugMode {
		Logger.Debug("Enable verbose logging")
	}
	return nil
}

func handlerOptions(level *slog.LevelVar, addSource bool, format LogFormat) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch {
			case a.Key == slog.TimeKey && format != JSONFormat:
				a.Value = slog.StringValue(a.Value.Time().Format(defaultTimeFormat))
			case a.Key == slog.LevelKey:
				level := a.Value.Any().(slog.Level)
				label, exists := LevelNames[level]
				if !exists {
					label = level.String()
				}
				a.Value = slog.StringValue(label)
			}
			return a
		},
	}
}

// IsDebugMode method checks if the debug mode is enabled.
func IsDebugMode() bool {
	return isDebugMode
}

// Tracef logs message with "trace" level and formats it.
func Tracef(format string, a ...any) {
	Logger.Log(context.Background(), LevelTrace, fmt.Sprintf(format, a...))
}

// Debug method logs message with "debug" level.
func Debug(a ...any) {
	Logger.Debug(fmt.Sprint(a...))
}

// Debugf method logs message with "debug" level and formats it.
func Debugf(format string, a ...any) {
	Logger.Debug(fmt.Sprintf(format, a...))
}

// Info method logs message with "info" level.
func Info(a ...any) {
	Logger.Info(fmt.Sprint(a...))
}

// Infof method logs message with "info" level and formats it.
func Infof(format string, a ...any) {
	Logger.Info(fmt.Sprintf(format, a...))
}

// Warn method logs message with "warn" level.
func Warn(a ...any) {
	Logger.Warn(fmt.Sprint(a...))
}

// Warnf method logs message with "warn" level and formats it.
func Warnf(format string, a ...any) {
	Logger.Warn(fmt.Sprintf(format, a...))
}

// Error method logs message with "error" level.
func Error(a ...any) {
	Logger.Error(fmt.Sprint(a...))
}

// Errorf method logs message with "error" level and formats it.
func Errorf(format string, a ...any) {
	Logger.Error(fmt.Sprintf(format, a...))
}
