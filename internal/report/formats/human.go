// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package formats

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/table"

	"github.com/lms-tools/course-check/internal/report"
	"github.com/lms-tools/course-check/internal/validation"
)

func init() {
	report.RegisterFormat(ReportFormatHuman, reportHumanFormat)
}

const (
	// ReportFormatHuman reports outcomes in a human-readable format
	ReportFormatHuman report.Format = "human"
)

var statusColors = map[validation.Status]*color.Color{
	validation.Passed:  color.New(color.FgGreen),
	validation.Failed:  color.New(color.FgRed),
	validation.NotRun:  color.New(color.FgHiBlack),
	validation.Unknown: color.New(color.FgYellow),
}

func reportHumanFormat(r *report.Report) (string, error) {
	if len(r.Entries) == 0 {
		return "No validation results", nil
	}

	var b strings.Builder

	headerPrinted := false
	for _, entry := range r.Entries {
		if entry.Result.Status == validation.Passed || len(entry.Result.Messages) == 0 {
			continue
		}

		if !headerPrinted {
			b.WriteString("DETAILS:\n")
			headerPrinted = true
		}

		fmt.Fprintf(&b, "%s (%s):\n", entry.Name, colorStatus(entry.Result.Status))
		writeMessages(&b, entry.Result)
	}
	if headerPrinted {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Course %d: %s\n", r.Course.ID, r.Course.Name)

	fixing := r.Operation == report.OperationFix
	t := table.NewWriter()
	header := table.Row{"Validation", "Result", "Fixable"}
	if fixing {
		header = append(header, "Verified")
	}
	t.AppendHeader(header)
	for _, entry := range r.Entries {
		row := table.Row{entry.Name, colorStatus(entry.Result.Status), fixable(entry.CanFix)}
		if fixing {
			row = append(row, colorStatus(entry.Verified))
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleRounded)
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(summaryLine(r))

	return b.String(), nil
}

func writeMessages(b *strings.Builder, result validation.Result[any]) {
	for _, message := range result.Messages {
		for _, line := range message.BodyLines {
			fmt.Fprintf(b, "  %s\n", line)
		}
		for _, link := range message.Links {
			fmt.Fprintf(b, "    -> %s\n", link)
		}
	}
	for _, link := range result.Links {
		fmt.Fprintf(b, "  see %s\n", link)
	}
}

func summaryLine(r *report.Report) string {
	summary := r.Summary()
	var parts []string
	for _, status := range []validation.Status{validation.Passed, validation.Failed, validation.Unknown, validation.NotRun} {
		if summary[status] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", summary[status], status))
		}
	}
	return strings.Join(parts, ", ")
}

func colorStatus(status validation.Status) string {
	if status == "" {
		return "-"
	}
	c, found := statusColors[status]
	if !found {
		return string(status)
	}
	return c.Sprint(strings.ToUpper(string(status)))
}

func fixable(canFix bool) string {
	if canFix {
		return "yes"
	}
	return "no"
}
