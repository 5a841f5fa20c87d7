// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package formats

import (
	"encoding/json"
	"fmt"

	"github.com/lms-tools/course-check/internal/report"
)

func init() {
	report.RegisterFormat(ReportFormatJSON, reportJSONFormat)
}

const (
	// ReportFormatJSON reports outcomes as a JSON document
	ReportFormatJSON report.Format = "json"
)

func reportJSONFormat(r *report.Report) (string, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to format report as JSON: %w", err)
	}
	return string(out), nil
}
