// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package install

import (
	"errors"
	"fmt"
	"os"

	"github.com/lms-tools/course-check/internal/configuration/locations"
	"github.com/lms-tools/course-check/internal/logger"
)

// EnsureInstalled method creates once the configuration directory with a
// default configuration file.
func EnsureInstalled() error {
	courseCheckPath, err := locations.NewLocationManager()
	if err != nil {
		return fmt.Errorf("failed locating the configuration directory: %w", err)
	}

	installed, err := checkIfAlreadyInstalled(courseCheckPath)
	if err != nil {
		return fmt.Errorf("checking installation failed: %w", err)
	}
	if installed {
		return nil
	}

	err = createCourseCheckDirectories(courseCheckPath)
	if err != nil {
		return fmt.Errorf("creating course-check directories failed: %w", err)
	}

	// never overwrite settings from a previous version
	err = writeConfigFile(courseCheckPath)
	if err != nil {
		return fmt.Errorf("writing configuration file failed: %w", err)
	}

	err = writeVersionFile(courseCheckPath)
	if err != nil {
		return fmt.Errorf("writing version file failed: %w", err)
	}

	logger.Infof("course-check has been installed in %s", courseCheckPath.RootDir())
	return nil
}

func checkIfAlreadyInstalled(courseCheckPath *locations.LocationManager) (bool, error) {
	_, err := os.Stat(courseCheckPath.ConfigFile())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat file failed (path: %s): %w", courseCheckPath.ConfigFile(), err)
	}
	return checkIfLatestVersionInstalled(courseCheckPath)
}

func createCourseCheckDirectories(courseCheckPath *locations.LocationManager) error {
	for _, dir := range []string{courseCheckPath.RootDir(), courseCheckPath.ReportsDir()} {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("creating directory failed (path: %s): %w", dir, err)
		}
	}
	return nil
}

func writeConfigFile(courseCheckPath *locations.LocationManager) error {
	path := courseCheckPath.ConfigFile()
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat file failed (path: %s): %w", path, err)
	}

	// The token may end up here, keep the file private.
	return writeStaticResource(nil, path, applicationConfigurationYml, 0600)
}

func writeStaticResource(err error, path, content string, perm os.FileMode) error {
	if err != nil {
		return err
	}

	err = os.WriteFile(path, []byte(content), perm)
	if err != nil {
		return fmt.Errorf("writing file failed (path: %s): %w", path, err)
	}
	return nil
}
