// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package outputs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lms-tools/course-check/internal/configuration/locations"
	"github.com/lms-tools/course-check/internal/report"
	"github.com/lms-tools/course-check/internal/report/formats"
)

func init() {
	report.RegisterOutput(ReportOutputFile, reportToFile)
}

const (
	// ReportOutputFile reports outcomes to files in the reports folder
	ReportOutputFile report.Output = "file"
)

func reportToFile(w io.Writer, r *report.Report, formatted string, format report.Format) error {
	loc, err := locations.NewLocationManager()
	if err != nil {
		return fmt.Errorf("could not determine reports folder: %w", err)
	}

	dest := loc.ReportsDir()
	if err := os.MkdirAll(dest, 0755); err != nil {
		return fmt.Errorf("could not create reports folder: %w", err)
	}

	filePath := filepath.Join(dest, fileName(r, format))
	if err := os.WriteFile(filePath, []byte(formatted+"\n"), 0644); err != nil {
		return fmt.Errorf("could not write report file: %w", err)
	}

	fmt.Fprintf(w, "Report written to %s\n", filePath)
	return nil
}

func fileName(r *report.Report, format report.Format) string {
	return fmt.Sprintf("%s_%d_%s_%s.%s",
		r.Operation,
		r.Course.ID,
		r.StartedAt.UTC().Format("20060102T150405Z"),
		r.RunID,
		formats.Extension(format),
	)
}
