// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lms-tools/course-check/internal/cobraext"
	"github.com/lms-tools/course-check/internal/report"
	"github.com/lms-tools/course-check/internal/signal"
	"github.com/lms-tools/course-check/internal/tui"
	"github.com/lms-tools/course-check/internal/validation"
)

const checkLongDescription = `Use this command to run the validations against a course.

Validations are selected by name or glob with --check, or interactively. The course content can also be searched for some text or regular expression, matches are reported as a failed validation. The command fails when any validation fails.`

func setupCheckCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a course",
		Long:  checkLongDescription,
		Args:  cobra.NoArgs,
		RunE:  checkCommandAction,
	}
	addSessionFlags(cmd)
	cmd.Flags().String(cobraext.SearchFlagName, "", cobraext.SearchFlagDescription)
	cmd.Flags().Bool(cobraext.RegexFlagName, false, cobraext.RegexFlagDescription)
	cmd.Flags().Bool(cobraext.CaseSensitiveFlagName, false, cobraext.CaseSensitiveFlagDescription)
	cobraext.EnableSignalHandling(cmd)

	return cobraext.NewCommand(cmd, cobraext.ContextCourse)
}

func checkCommandAction(cmd *cobra.Command, args []string) error {
	searchOptions, err := searchFlags(cmd)
	if err != nil {
		return err
	}

	run, err := prepareRun(cmd)
	if err != nil {
		return err
	}

	interactive, _ := cmd.Flags().GetBool(cobraext.InteractiveFlagName)
	if interactive && searchOptions.Pattern == "" {
		searchOptions, err = tui.AskSearch()
		if err != nil {
			return err
		}
	}
	if searchOptions.Pattern != "" {
		search, err := validation.NewSearch(run.set, searchOptions)
		if err != nil {
			return cobraext.FlagParsingError(err, cobraext.SearchFlagName)
		}
		run.session.SetSearch(search)
	}

	ctx := cmd.Context()
	cmd.PrintErrf("Checking course %d: %s\n", run.course.ID, run.course.Name)
	r := report.New(report.OperationCheck, run.client.Host(), run.course, time.Now())
	r.Add(run.session.Run(ctx, run.course)...)

	if err := writeReport(cmd, r); err != nil {
		return err
	}
	if signal.SIGINT(ctx) {
		return errInterrupted
	}
	if r.Failed() {
		return errors.New("one or more validations failed")
	}
	return nil
}

func searchFlags(cmd *cobra.Command) (validation.SearchOptions, error) {
	var opts validation.SearchOptions
	var err error
	opts.Pattern, err = cmd.Flags().GetString(cobraext.SearchFlagName)
	if err != nil {
		return opts, cobraext.FlagParsingError(err, cobraext.SearchFlagName)
	}
	opts.Regex, err = cmd.Flags().GetBool(cobraext.RegexFlagName)
	if err != nil {
		return opts, cobraext.FlagParsingError(err, cobraext.RegexFlagName)
	}
	opts.CaseSensitive, err = cmd.Flags().GetBool(cobraext.CaseSensitiveFlagName)
	if err != nil {
		return opts, cobraext.FlagParsingError(err, cobraext.CaseSensitiveFlagName)
	}
	if opts.Pattern != "" {
		// Reject bad expressions before reaching Canvas.
		if _, err := validation.CompileSearch(opts); err != nil {
			return opts, cobraext.FlagParsingError(fmt.Errorf("invalid search: %w", err), cobraext.SearchFlagName)
		}
	}
	return opts, nil
}
