// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package checks

import (
	"context"
	"fmt"
	"slices"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/content"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/multierror"
	"github.com/lms-tools/course-check/internal/validation"
)

const textEntrySubmission = "online_text_entry"

// Submission types without online submissions, these assignments are
// never required to accept text entries.
var ignoredSubmissionTypes = []string{
	"external_tool",
	"none",
	"not_graded",
	"on_paper",
	"discussion_topic",
	"online_quiz",
}

// NeedsTextEntry reports whether an assignment accepting online submissions
// does not accept text entries.
func NeedsTextEntry(assignment canvas.Assignment) bool {
	if len(assignment.SubmissionTypes) == 0 {
		return false
	}
	for _, t := range assignment.SubmissionTypes {
		if slices.Contains(ignoredSubmissionTypes, t) {
			return false
		}
	}
	return !slices.Contains(assignment.SubmissionTypes, textEntrySubmission)
}

// TextEntry flags the assignments with online submissions that don't allow
// text entries, and adds the text entry submission type to them.
func TextEntry(assignments content.Assignments) *validation.Unit[[]canvas.Assignment] {
	type result = validation.Result[[]canvas.Assignment]
	type options = validation.ResultOptions[[]canvas.Assignment]

	run := func(ctx context.Context, course *canvas.Course) (result, error) {
		var flagged []canvas.Assignment
		var messages []validation.Message
		for assignment, err := range assignments.List(ctx, course.ID, nil) {
			if err != nil {
				return result{}, fmt.Errorf("can't list assignments: %w", err)
			}
			if !assignments.Is(assignment) || !NeedsTextEntry(assignment) {
				continue
			}
			flagged = append(flagged, assignment)
			messages = append(messages, validation.Message{
				BodyLines: []string{assignment.Name},
				Links:     nonEmpty(assignment.HTMLURL),
			})
		}
		if len(flagged) == 0 {
			return validation.New(validation.Passed, options{
				NotFailureMessage: validation.Text("All assignments with online submissions accept text entries"),
			}), nil
		}
		return validation.New(validation.Failed, options{
			FailureMessage: messages,
			UserData:       flagged,
		}), nil
	}

	fix := func(ctx context.Context, course *canvas.Course, failed result) (result, error) {
		if len(failed.UserData) == 0 {
			return validation.New(validation.Failed, options{
				FailureMessage: validation.Text("Failed to fix: no assignments to update"),
			}), nil
		}

		var errs multierror.Error
		var updated, remaining []canvas.Assignment
		for _, assignment := range failed.UserData {
			types := append(slices.Clone(assignment.SubmissionTypes), textEntrySubmission)
			patched, err := assignments.Put(ctx, course.ID, assignment.ID, canvas.AssignmentUpdate{SubmissionTypes: types})
			if err == nil && !assignments.Is(patched) {
				err = fmt.Errorf("failed to update assignment %q", assignment.Name)
			}
			if err != nil {
				errs.Append(err)
				remaining = append(remaining, assignment)
				continue
			}
			logger.Infof("Enabled text entry submissions in assignment %d of course %d", assignment.ID, course.ID)
			updated = append(updated, patched)
		}

		if err := errs.ErrorOrNil(); err != nil {
			messages := validation.Text(fmt.Sprintf("Updated %d of %d assignments, the rest still don't accept text entries", len(updated), len(failed.UserData)))
			for _, err := range errs {
				messages = append(messages, validation.Message{BodyLines: []string{err.Error()}})
			}
			return validation.New(validation.Failed, options{
				FailureMessage: messages,
				UserData:       remaining,
			}), nil
		}
		return validation.New(validation.Passed, options{
			NotFailureMessage: validation.Text(fmt.Sprintf("Enabled text entry submissions in %d assignments", len(updated))),
			UserData:          updated,
		}), nil
	}

	return validation.NewUnit(TextEntryName, textEntryDescription, run, fix)
}
