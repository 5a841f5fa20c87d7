// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Handler renders records as "<time> <LEVEL>: <message> {attrs}". Attributes
// are encoded by an inner JSON handler so groups and nested values keep
// their slog semantics.
type Handler struct {
	inner       slog.Handler
	mutex       *sync.Mutex
	out         io.Writer
	buffer      *bytes.Buffer
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
}

func newHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	buffer := &bytes.Buffer{}
	inner := *opts
	inner.ReplaceAttr = withoutBuiltins(opts.ReplaceAttr)
	return &Handler{
		inner:       slog.NewJSONHandler(buffer, &inner),
		mutex:       &sync.Mutex{},
		out:         out,
		buffer:      buffer,
		replaceAttr: opts.ReplaceAttr,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)
	return &c
}

func (h *Handler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)
	return &c
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	builtins := []slog.Attr{
		slog.Time(slog.TimeKey, r.Time),
		slog.Any(slog.LevelKey, r.Level),
		slog.String(slog.MessageKey, r.Message),
	}

	var line strings.Builder
	for _, attr := range builtins {
		if h.replaceAttr != nil {
			attr = h.replaceAttr(nil, attr)
		}
		if attr.Equal(slog.Attr{}) {
			continue
		}
		value := attr.Value.String()
		if value == "" {
			continue
		}
		if attr.Key == slog.LevelKey {
			value += ":"
		}
		line.WriteString(value)
		line.WriteString(" ")
	}

	attrs, err := h.encodeAttrs(ctx, r)
	if err != nil {
		return err
	}
	if len(attrs) > 0 {
		encoded, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("error when marshaling attrs: %w", err)
		}
		line.Write(encoded)
	}

	_, err = io.WriteString(h.out, strings.TrimRight(line.String(), " ")+"\n")
	return err
}

func withoutBuiltins(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
			return slog.Attr{}
		}
		if next == nil {
			return a
		}
		return next(groups, a)
	}
}

func (h *Handler) encodeAttrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.mutex.Lock()
	defer func() {
		h.buffer.Reset()
		h.mutex.Unlock()
	}()
	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	var attrs map[string]any
	if err := json.Unmarshal(h.buffer.Bytes(), &attrs); err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}
	return attrs, nil
}
