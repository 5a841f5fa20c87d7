// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package locations

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_configurationDir(t *testing.T) {
	t.Setenv(ConfigDirEnv, "")

	userHome, err := os.UserHomeDir()
	require.NoError(t, err)
	expected := filepath.Join(userHome, courseCheckDir)

	actual, err := configurationDir()
	require.NoError(t, err)

	assert.Equal(t, expected, actual)
}

func Test_configurationDirError(t *testing.T) {
	var env string
	// Copied from os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		env = "USERPROFILE"
	case "plan9":
		env = "home"
	default:
		env = "HOME"
	}
	t.Setenv(ConfigDirEnv, "")
	t.Setenv(env, "")

	_, err := configurationDir()
	assert.Error(t, err)
}

func Test_configurationDirOverride(t *testing.T) {
	expected := "/tmp/foobar"
	t.Setenv(ConfigDirEnv, expected)

	actual, err := configurationDir()
	require.NoError(t, err)

	assert.Equal(t, expected, actual)
}

func TestLocationManagerPaths(t *testing.T) {
	t.Setenv(ConfigDirEnv, "/tmp/course-check")

	loc, err := NewLocationManager()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/course-check", loc.RootDir())
	assert.Equal(t, filepath.Join("/tmp/course-check", "config.yml"), loc.ConfigFile())
	assert.Equal(t, filepath.Join("/tmp/course-check", "reports"), loc.ReportsDir())
	assert.Equal(t, filepath.Join("/tmp/course-check", "version"), loc.VersionFile())
}
