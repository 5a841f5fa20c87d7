// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/cobraext"
)

const coursesLongDescription = `Use this command to search the courses of the root account by name or course code.`

const defaultCoursesLimit = 50

func setupCoursesCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "courses SEARCH",
		Short: "Search courses",
		Long:  coursesLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  coursesCommandAction,
	}
	cmd.Flags().Int(cobraext.LimitFlagName, defaultCoursesLimit, cobraext.LimitFlagDescription)

	return cobraext.NewCommand(cmd, cobraext.ContextGlobal)
}

func coursesCommandAction(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt(cobraext.LimitFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.LimitFlagName)
	}

	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("can't load settings: %w", err)
	}
	client, err := newCanvasClient(settings.Canvas)
	if err != nil {
		return fmt.Errorf("can't create Canvas client: %w", err)
	}

	table := newTable(cmd.OutOrStdout(), "ID", "Code", "Name", "Created")

	found := 0
	accounts := canvas.NewAccountCache(client)
	for course, err := range canvas.SearchCourses(cmd.Context(), client, accounts, args[0]) {
		if err != nil {
			return fmt.Errorf("can't search courses: %w", err)
		}
		if found == limit {
			break
		}
		found++

		created := "-"
		if course.CreatedAt != nil {
			created = humanize.Time(*course.CreatedAt)
		}
		if err := table.Append([]string{strconv.Itoa(course.ID), course.CourseCode, course.Name, created}); err != nil {
			return fmt.Errorf("can't add course %d to the table: %w", course.ID, err)
		}
	}

	if found == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No courses match %q\n", args[0])
		return nil
	}
	return table.Render()
}
