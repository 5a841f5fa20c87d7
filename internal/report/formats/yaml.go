// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package formats

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lms-tools/course-check/internal/report"
)

func init() {
	report.RegisterFormat(ReportFormatYAML, reportYAMLFormat)
}

const (
	// ReportFormatYAML reports outcomes as a YAML document
	ReportFormatYAML report.Format = "yaml"
)

func reportYAMLFormat(r *report.Report) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return "", fmt.Errorf("unable to format report as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("unable to format report as YAML: %w", err)
	}
	return buf.String(), nil
}

// Extension returns the file extension used for reports in the given format.
func Extension(format report.Format) string {
	switch format {
	case ReportFormatJSON:
		return "json"
	case ReportFormatYAML:
		return "yml"
	default:
		return "txt"
	}
}
