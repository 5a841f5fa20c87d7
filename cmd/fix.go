// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/lms-tools/course-check/internal/cobraext"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/report"
	"github.com/lms-tools/course-check/internal/signal"
	"github.com/lms-tools/course-check/internal/tui"
	"github.com/lms-tools/course-check/internal/validation"
)

const fixLongDescription = `Use this command to fix a course.

The selected validations run first. Each failed validation that can be fixed is then fixed, after confirmation unless --yes is given, and checked again to verify the fix. Fixes only touch the content that failed.`

func setupFixCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Fix the failed validations of a course",
		Long:  fixLongDescription,
		Args:  cobra.NoArgs,
		RunE:  fixCommandAction,
	}
	addSessionFlags(cmd)
	cmd.Flags().BoolP(cobraext.YesFlagName, cobraext.YesFlagShorthand, false, cobraext.YesFlagDescription)
	cobraext.EnableSignalHandling(cmd)

	return cobraext.NewCommand(cmd, cobraext.ContextCourse)
}

func fixCommandAction(cmd *cobra.Command, args []string) error {
	yes, err := cmd.Flags().GetBool(cobraext.YesFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.YesFlagName)
	}

	run, err := prepareRun(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cmd.PrintErrf("Fixing course %d: %s\n", run.course.ID, run.course.Name)
	r := report.New(report.OperationFix, run.client.Host(), run.course, time.Now())
	outcomes := run.session.Run(ctx, run.course)
	r.Add(outcomes...)

	for _, outcome := range outcomes {
		if outcome.Result.Status != validation.Failed || !outcome.CanFix {
			continue
		}
		if signal.SIGINT(ctx) {
			break
		}
		if !yes {
			confirmed, err := tui.ConfirmFix(outcome)
			if err != nil {
				return err
			}
			if !confirmed {
				continue
			}
		}

		fixed, err := run.session.Fix(ctx, run.course, outcome.Name)
		if err != nil {
			return err
		}
		logger.Infof("Fix of %q: %s", outcome.Name, fixed.Result.Status)
		r.Add(fixed)

		// Check again, a fix is only trusted once the content passes.
		if v, found := run.session.Catalog().Get(outcome.Name); found {
			verified := v.Run(ctx, run.course)
			r.Verify(outcome.Name, verified.Status)
		}
	}

	if err := writeReport(cmd, r); err != nil {
		return err
	}
	if signal.SIGINT(ctx) {
		return errInterrupted
	}
	if r.Failed() {
		return errors.New("one or more validations are still failing")
	}
	return nil
}
