// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cobraext

// Global flags
const (
	VerboseFlagName        = "verbose"
	VerboseFlagShorthand   = "v"
	VerboseFlagDescription = "verbose mode, repeat for more details"

	LogFormatFlagName        = "log-format"
	LogFormatFlagDescription = "format of the logs (default | text | json)"
)

// Flag names and descriptions used by CLI commands
const (
	CourseFlagName        = "course"
	CourseFlagShorthand   = "c"
	CourseFlagDescription = "ID of the course to validate, asked interactively when missing"

	CheckFlagName        = "check"
	CheckFlagDescription = "name or glob of the validations to run (repeatable), all of them by default"

	ConcurrencyFlagName        = "concurrency"
	ConcurrencyFlagDescription = "maximum number of validations running at the same time (defaults to validation.concurrency)"

	InteractiveFlagName        = "interactive"
	InteractiveFlagShorthand   = "i"
	InteractiveFlagDescription = "select validations and search interactively"

	SearchFlagName        = "search"
	SearchFlagDescription = "also report course content matching this pattern"

	RegexFlagName        = "regex"
	RegexFlagDescription = "interpret the search pattern as a regular expression"

	CaseSensitiveFlagName        = "case-sensitive"
	CaseSensitiveFlagDescription = "make the search case sensitive"

	ReportFormatFlagName        = "report-format"
	ReportFormatFlagDescription = "format of the report (%s)"

	ReportOutputFlagName        = "report-output"
	ReportOutputFlagDescription = "output location for the report (%s)"

	YesFlagName        = "yes"
	YesFlagShorthand   = "y"
	YesFlagDescription = "apply every fix without asking"

	LimitFlagName        = "limit"
	LimitFlagDescription = "maximum number of courses to list"
)
