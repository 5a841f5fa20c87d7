// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/lms-tools/course-check/internal/cobraext"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/signal"
	"github.com/lms-tools/course-check/internal/version"
)

func setupCommands() []*cobraext.Command {
	return []*cobraext.Command{
		setupCheckCommand(),
		setupCoursesCommand(),
		setupFixCommand(),
		setupListCommand(),
		setupVersionCommand(),
	}
}

// RootCmd creates and returns root cmd for course-check
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "course-check",
		Short:        "course-check - Command line tool for validating and fixing Canvas courses",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cobraext.ComposeCommandActions(cmd, args,
				processPersistentFlags,
				enableSignalHandling,
				checkVersionUpdate,
			)
		},
	}
	rootCmd.PersistentFlags().CountP(cobraext.VerboseFlagName, cobraext.VerboseFlagShorthand, cobraext.VerboseFlagDescription)
	rootCmd.PersistentFlags().String(cobraext.LogFormatFlagName, logger.DefaultFormatLabel, cobraext.LogFormatFlagDescription)

	for _, cmd := range setupCommands() {
		rootCmd.AddCommand(cmd.Command)
	}
	return rootCmd
}

// Commands returns the list of commands that have been setup for course-check.
func Commands() []*cobraext.Command {
	commands := setupCommands()
	sort.SliceStable(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})

	return commands
}

func processPersistentFlags(cmd *cobra.Command, args []string) error {
	verbosity, err := cmd.Flags().GetCount(cobraext.VerboseFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.VerboseFlagName)
	}
	logFormat, err := cmd.Flags().GetString(cobraext.LogFormatFlagName)
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.LogFormatFlagName)
	}

	err = logger.SetupLogger(logger.LoggerOptions{
		Verbosity: verbosity,
		LogFormat: logFormat,
		Output:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return cobraext.FlagParsingError(err, cobraext.LogFormatFlagName)
	}
	return nil
}

func enableSignalHandling(cmd *cobra.Command, args []string) error {
	if !cobraext.IsSignalHandingRequested(cmd) {
		return nil
	}
	ctx, cancel := signal.Enable(cmd.Context())
	cobra.OnFinalize(cancel)
	cmd.SetContext(ctx)
	return nil
}

func checkVersionUpdate(cmd *cobra.Command, args []string) error {
	version.CheckUpdate(cmd.Context())
	return nil
}
