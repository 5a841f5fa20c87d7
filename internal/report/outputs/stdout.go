// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package outputs

import (
	"fmt"
	"io"

	"github.com/lms-tools/course-check/internal/report"
)

func init() {
	report.RegisterOutput(ReportOutputSTDOUT, reportToSTDOUT)
}

const (
	// ReportOutputSTDOUT reports outcomes to STDOUT
	ReportOutputSTDOUT report.Output = "stdout"
)

func reportToSTDOUT(w io.Writer, _ *report.Report, formatted string, _ report.Format) error {
	_, err := fmt.Fprintln(w, formatted)
	return err
}
