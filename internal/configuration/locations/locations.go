// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

// Package locations manages base file and directory locations from within the course-check config
package locations

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	courseCheckDir = ".course-check"
	reportsDir     = "reports"

	configFile  = "config.yml"
	versionFile = "version"

	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "COURSE_CHECK_CONFIG_DIR"
)

// LocationManager maintains an instance of a config path location
type LocationManager struct {
	rootPath string
}

// NewLocationManager returns a new manager to track the Configuration dir
func NewLocationManager() (*LocationManager, error) {
	cfg, err := configurationDir()
	if err != nil {
		return nil, fmt.Errorf("error getting config dir: %w", err)
	}

	return &LocationManager{rootPath: cfg}, nil
}

// RootDir returns the root course-check dir
func (loc LocationManager) RootDir() string {
	return loc.rootPath
}

// ConfigFile returns the location of the tool configuration file.
func (loc LocationManager) ConfigFile() string {
	return filepath.Join(loc.rootPath, configFile)
}

// VersionFile returns the location of the file recording the installed version.
func (loc LocationManager) VersionFile() string {
	return filepath.Join(loc.rootPath, versionFile)
}

// ReportsDir returns the directory where reports are written.
func (loc LocationManager) ReportsDir() string {
	return filepath.Join(loc.rootPath, reportsDir)
}

func configurationDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("reading home dir failed: %w", err)
	}
	return filepath.Join(homeDir, courseCheckDir), nil
}
