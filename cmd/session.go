// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/cobraext"
	"github.com/lms-tools/course-check/internal/configuration"
	"github.com/lms-tools/course-check/internal/content"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/report"
	"github.com/lms-tools/course-check/internal/report/formats"
	"github.com/lms-tools/course-check/internal/report/outputs"
	"github.com/lms-tools/course-check/internal/tui"
	"github.com/lms-tools/course-check/internal/validation"
	"github.com/lms-tools/course-check/internal/validation/checks"
)

// courseRun is everything a check or a fix needs.
type courseRun struct {
	client  *canvas.Client
	set     content.Set
	session *validation.Session
	course  *canvas.Course
}

func loadSettings() (configuration.Settings, error) {
	cfg, err := configuration.Load()
	if err != nil {
		return configuration.Settings{}, err
	}
	return cfg.Settings()
}

func newCanvasClient(settings configuration.CanvasSettings) (*canvas.Client, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return canvas.NewClient(
		canvas.Address(settings.URL),
		canvas.Token(settings.Token),
		canvas.RetryMax(settings.Retries),
		canvas.RateLimit(settings.RateLimit, settings.Burst),
		canvas.PerPage(settings.PerPage),
	)
}

func completionPolicy(settings configuration.ValidationSettings) checks.CompletionPolicy {
	policy := make(checks.CompletionPolicy, len(settings.CompletionPolicy))
	for itemType, requirement := range settings.CompletionPolicy {
		policy[itemType] = canvas.CompletionRequirement{
			Type:     requirement.Type,
			MinScore: requirement.MinScore,
		}
	}
	return policy
}

func newCatalog(set content.Set, host string, settings configuration.ValidationSettings) (*validation.Catalog, error) {
	return checks.Catalog(set,
		checks.WithHost(host),
		checks.WithDevMarker(settings.DevCourseMarker),
		checks.WithCompletionPolicy(completionPolicy(settings)),
	)
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().IntP(cobraext.CourseFlagName, cobraext.CourseFlagShorthand, 0, cobraext.CourseFlagDescription)
	cmd.Flags().StringSlice(cobraext.CheckFlagName, nil, cobraext.CheckFlagDescription)
	cmd.Flags().BoolP(cobraext.InteractiveFlagName, cobraext.InteractiveFlagShorthand, false, cobraext.InteractiveFlagDescription)
	cmd.Flags().Int(cobraext.ConcurrencyFlagName, 0, cobraext.ConcurrencyFlagDescription)
	cmd.Flags().String(cobraext.ReportFormatFlagName, string(formats.ReportFormatHuman),
		fmt.Sprintf(cobraext.ReportFormatFlagDescription, strings.Join(report.Formats(), ", ")))
	cmd.Flags().String(cobraext.ReportOutputFlagName, string(outputs.ReportOutputSTDOUT),
		fmt.Sprintf(cobraext.ReportOutputFlagDescription, strings.Join(report.Outputs(), ", ")))
}

// prepareRun builds the client and the session with the selected
// validations and resolves the course.
func prepareRun(cmd *cobra.Command) (*courseRun, error) {
	interactive, err := cmd.Flags().GetBool(cobraext.InteractiveFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.InteractiveFlagName)
	}
	patterns, err := cmd.Flags().GetStringSlice(cobraext.CheckFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.CheckFlagName)
	}
	concurrency, err := cmd.Flags().GetInt(cobraext.ConcurrencyFlagName)
	if err != nil {
		return nil, cobraext.FlagParsingError(err, cobraext.ConcurrencyFlagName)
	}
	courseID, err := cobraext.GetCourseFlag(cmd)
	if err != nil {
		return nil, err
	}

	settings, err := loadSettings()
	if err != nil {
		return nil, fmt.Errorf("can't load settings: %w", err)
	}
	client, err := newCanvasClient(settings.Canvas)
	if err != nil {
		return nil, fmt.Errorf("can't create Canvas client: %w", err)
	}

	set := content.NewSet(client)
	catalog, err := newCatalog(set, client.Host(), settings.Validation)
	if err != nil {
		return nil, err
	}

	if concurrency <= 0 {
		concurrency = settings.Validation.Concurrency
	}
	session := validation.NewSession(catalog, validation.Concurrency(concurrency))

	switch {
	case interactive && len(patterns) == 0:
		names, err := tui.SelectValidations(catalog)
		if err != nil {
			return nil, err
		}
		if err := session.Select(names...); err != nil {
			return nil, err
		}
	case len(patterns) > 0:
		if err := session.SelectMatching(patterns...); err != nil {
			return nil, cobraext.FlagParsingError(err, cobraext.CheckFlagName)
		}
	default:
		session.SelectAll()
	}

	course, err := resolveCourse(cmd.Context(), client, courseID, interactive)
	if err != nil {
		return nil, err
	}

	return &courseRun{client: client, set: set, session: session, course: course}, nil
}

func resolveCourse(ctx context.Context, client *canvas.Client, courseID int, interactive bool) (*canvas.Course, error) {
	if courseID == 0 {
		if !interactive {
			return nil, fmt.Errorf("missing --%s, or use --%s to search for it", cobraext.CourseFlagName, cobraext.InteractiveFlagName)
		}
		term, err := tui.AskOne[string](tui.NewInput("Search courses by name or code:", ""), tui.Required)
		if err != nil {
			return nil, err
		}
		courses, err := canvas.Collect(canvas.SearchCourses(ctx, client, canvas.NewAccountCache(client), term))
		if err != nil {
			return nil, fmt.Errorf("can't search courses: %w", err)
		}
		selected, err := tui.SelectCourse(courses)
		if err != nil {
			return nil, err
		}
		courseID = selected.ID
	}

	course, err := client.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("can't get course %d: %w", courseID, err)
	}
	return course, nil
}

func writeReport(cmd *cobra.Command, r *report.Report) error {
	format, err := cmd.Flags().GetString(cobraext.ReportFormatFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ReportFormatFlagName)
	}
	output, err := cmd.Flags().GetString(cobraext.ReportOutputFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.ReportOutputFlagName)
	}

	r.Finish(time.Now())
	formatted, err := report.FormatReport(report.Format(format), r)
	if err != nil {
		return fmt.Errorf("error formatting report: %w", err)
	}
	if err := report.WriteReport(cmd.OutOrStdout(), report.Output(output), r, formatted, report.Format(format)); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	logger.Debugf("Report %s written", r.RunID)
	return nil
}

var errInterrupted = errors.New("interrupted")
