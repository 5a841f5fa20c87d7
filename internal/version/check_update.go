// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package version

import (
	"context"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	gogithub "github.com/google/go-github/v32/github"

	"github.com/lms-tools/course-check/internal/github"
	"github.com/lms-tools/course-check/internal/logger"
)

const (
	repositoryOwner = "lms-tools"
	repositoryName  = "course-check"

	// CheckUpdateDisabledEnv disables the release check when set to any value.
	CheckUpdateDisabledEnv = "COURSE_CHECK_CHECK_UPDATE_DISABLED"
)

// CheckUpdate function checks using Github Release API if newer version is available.
func CheckUpdate(ctx context.Context) {
	if os.Getenv(CheckUpdateDisabledEnv) != "" {
		return
	}
	if Tag == "" {
		logger.Debugf("Distribution built without a version tag, can't determine release chronology. Please consider using official releases at " +
			"https://github.com/lms-tools/course-check/releases")
		return
	}

	release, newer := checkUpdate(ctx, github.UnauthorizedClient(), Tag)
	if newer {
		logger.Infof("New version is available - %s. Download from: %s", release.GetTagName(), release.GetHTMLURL())
	}
}

func checkUpdate(ctx context.Context, client *gogithub.Client, tag string) (*gogithub.RepositoryRelease, bool) {
	release, _, err := client.Repositories.GetLatestRelease(ctx, repositoryOwner, repositoryName)
	if err != nil {
		logger.Debugf("Error: can't check latest release, %v", err)
		return nil, false
	}

	if release.GetTagName() == "" {
		logger.Debugf("Error: release tag is empty")
		return nil, false
	}

	currentVersion, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		logger.Debugf("Error: can't parse current version tag, %v", err)
		return nil, false
	}

	releaseVersion, err := semver.NewVersion(strings.TrimPrefix(release.GetTagName(), "v"))
	if err != nil {
		logger.Debugf("Error: can't parse release version tag, %v", err)
		return nil, false
	}

	return release, currentVersion.LessThan(releaseVersion)
}
