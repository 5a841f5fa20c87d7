// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLoggerDefaultFormat(t *testing.T) {
	t.Cleanup(func() { _ = SetupLogger(LoggerOptions{Output: os.Stderr}) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(LoggerOptions{Verbosity: 1, Output: &buf}))
	buf.Reset()

	Logger.Info("fixed page", "course", 42)
	Debugf("GET %s", "https://lms.test/api/v1/courses/42")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `INFO: fixed page {"course":42}`)
	assert.Contains(t, string(lines[1]), "DEBUG: GET https://lms.test/api/v1/courses/42")
	assert.True(t, IsDebugMode())
}

func TestSetupLoggerJSON(t *testing.T) {
	t.Cleanup(func() { _ = SetupLogger(LoggerOptions{Output: os.Stderr}) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(LoggerOptions{Verbosity: 2, LogFormat: JSONFormatLabel, Output: &buf}))
	buf.Reset()

	Tracef("page %d", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "TRACE", record["level"])
	assert.Equal(t, "page 3", record["msg"])
}

func TestSetupLoggerQuietByDefault(t *testing.T) {
	t.Cleanup(func() { _ = SetupLogger(LoggerOptions{Output: os.Stderr}) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(LoggerOptions{Output: &buf}))
	Debugf("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, IsDebugMode())
}

func TestSetupLoggerUnknownFormat(t *testing.T) {
	err := SetupLogger(LoggerOptions{LogFormat: "xml"})
	assert.ErrorContains(t, err, `unrecognized log format "xml"`)
}
