// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cobraext

import (
	"github.com/spf13/cobra"
)

const signalHandlingAnnotation = "enable_signal_handling"

// EnableSignalHandling marks commands whose context is cancelled on ctrl+c.
func EnableSignalHandling(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[signalHandlingAnnotation] = ""
}

// IsSignalHandingRequested checks the command and its parents.
func IsSignalHandingRequested(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, found := c.Annotations[signalHandlingAnnotation]; found {
			return true
		}
	}
	return false
}
