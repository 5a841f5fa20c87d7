// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package install

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lms-tools/course-check/internal/configuration/locations"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/version"
)

func checkIfLatestVersionInstalled(courseCheckPath *locations.LocationManager) (bool, error) {
	versionPath := courseCheckPath.VersionFile()
	versionFile, err := os.ReadFile(versionPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil // old version, no version file
	}
	if err != nil {
		return false, fmt.Errorf("reading version file failed: %w", err)
	}
	v := string(versionFile)
	if version.CommitHash == "undefined" && strings.Contains(v, "undefined") {
		logger.Warnf("CommitHash is undefined, in both %s and the compiled binary, config may be out of date.", versionPath)
	}
	return buildVersionFile(version.CommitHash, version.BuildTime) == v, nil
}

func writeVersionFile(courseCheckPath *locations.LocationManager) error {
	var err error
	err = writeStaticResource(err,
		courseCheckPath.VersionFile(),
		buildVersionFile(version.CommitHash, version.BuildTime), 0644)
	if err != nil {
		return fmt.Errorf("writing static resource failed: %w", err)
	}
	return nil
}

func buildVersionFile(commitHash, buildTime string) string {
	return fmt.Sprintf("%s-%s", commitHash, buildTime)
}
