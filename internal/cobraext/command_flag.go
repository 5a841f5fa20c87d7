// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cobraext

import (
	"fmt"

	"github.com/spf13/cobra"
)

// FlagParsingError method wraps the original error with parsing error.
func FlagParsingError(err error, flagName string) error {
	return fmt.Errorf("error parsing --%s flag: %w", flagName, err)
}

// GetCourseFlag returns the course ID given with --course. Zero means no
// course was given.
func GetCourseFlag(cmd *cobra.Command) (int, error) {
	courseID, err := cmd.Flags().GetInt(CourseFlagName)
	if err != nil {
		return 0, FlagParsingError(err, CourseFlagName)
	}
	if courseID < 0 {
		return 0, FlagParsingError(fmt.Errorf("invalid course ID %d", courseID), CourseFlagName)
	}
	return courseID, nil
}
