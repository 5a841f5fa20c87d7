// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lms-tools/course-check/internal/configuration"
	"github.com/lms-tools/course-check/internal/configuration/locations"
)

func TestEnsureInstalled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "course-check")
	t.Setenv(locations.ConfigDirEnv, dir)
	t.Setenv(configuration.CanvasURLEnv, "")
	t.Setenv(configuration.CanvasTokenEnv, "")

	require.NoError(t, EnsureInstalled())

	assert.DirExists(t, filepath.Join(dir, "reports"))
	assert.FileExists(t, filepath.Join(dir, "version"))

	cfg, err := configuration.LoadFile(filepath.Join(dir, "config.yml"))
	require.NoError(t, err)
	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, 50, settings.Canvas.PerPage)
	assert.Equal(t, "DEV_", settings.Validation.DevCourseMarker)
	assert.Empty(t, settings.Validation.CompletionPolicy)
}

func TestEnsureInstalledKeepsConfiguration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(locations.ConfigDirEnv, dir)

	configPath := filepath.Join(dir, "config.yml")
	custom := "canvas:\n  url: https://school.instructure.com\n"
	require.NoError(t, os.WriteFile(configPath, []byte(custom), 0600))

	require.NoError(t, EnsureInstalled())

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(content))
	assert.DirExists(t, filepath.Join(dir, "reports"))

	installed, err := checkIfAlreadyInstalled(mustLocations(t))
	require.NoError(t, err)
	assert.True(t, installed)
}

func mustLocations(t *testing.T) *locations.LocationManager {
	t.Helper()
	loc, err := locations.NewLocationManager()
	require.NoError(t, err)
	return loc
}
