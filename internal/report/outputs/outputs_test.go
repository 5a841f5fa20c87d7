// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package outputs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/configuration/locations"
	"github.com/lms-tools/course-check/internal/report"
	"github.com/lms-tools/course-check/internal/report/formats"
)

func sampleReport() *report.Report {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return report.New(report.OperationCheck, "https://school.instructure.com", &canvas.Course{ID: 42}, started)
}

func TestReportToSTDOUT(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteReport(&buf, ReportOutputSTDOUT, sampleReport(), "formatted report", formats.ReportFormatHuman)
	require.NoError(t, err)
	assert.Equal(t, "formatted report\n", buf.String())
}

func TestReportToFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(locations.ConfigDirEnv, dir)

	r := sampleReport()
	var buf bytes.Buffer
	err := report.WriteReport(&buf, ReportOutputFile, r, `{"run_id": "x"}`, formats.ReportFormatJSON)
	require.NoError(t, err)

	expected := filepath.Join(dir, "reports", "check_42_20240301T100000Z_"+r.RunID+".json")
	content, err := os.ReadFile(expected)
	require.NoError(t, err)
	assert.Equal(t, "{\"run_id\": \"x\"}\n", string(content))
	assert.Equal(t, "Report written to "+expected, strings.TrimSpace(buf.String()))
}
