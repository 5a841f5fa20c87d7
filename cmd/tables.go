// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cmd

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// courseTableMaxWidth fits validation descriptions and course names without
// wrapping most of them.
const courseTableMaxWidth = 48

var (
	courseTableConfig = tablewriter.Config{
		Header: tw.CellConfig{
			Filter: tw.CellFilter{
				Global: titleHeaders,
			},
		},
		Row: tw.CellConfig{
			Formatting: tw.CellFormatting{
				AutoWrap: tw.WrapNormal,
			},
			ColMaxWidths: tw.CellWidth{Global: courseTableMaxWidth},
		},
	}

	plainTint = renderer.Tint{
		BG: renderer.Colors{color.Reset},
		FG: renderer.Colors{color.Reset},
	}
)

var headerReplacer = strings.NewReplacer("_", " ", ".", " ")

// titleHeaders keeps header cells readable when a config key is used as a title.
func titleHeaders(headers []string) []string {
	result := make([]string, len(headers))
	for i, h := range headers {
		result[i] = headerReplacer.Replace(h)
	}
	return result
}

// newTable returns a rounded table writing to w with the given headers. The
// first column holds the identifier of the row and is highlighted.
func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	colorized := renderer.ColorizedConfig{
		Header: renderer.Tint{
			FG: renderer.Colors{color.Bold},
		},
		Column: renderer.Tint{
			Columns: []renderer.Tint{
				{FG: renderer.Colors{color.Bold, color.FgCyan}},
			},
		},
		Settings: tw.Settings{
			Separators: tw.Separators{
				BetweenColumns: tw.On,
				BetweenRows:    tw.On,
			},
		},
		Symbols:   tw.NewSymbols(tw.StyleRounded),
		Border:    plainTint,
		Separator: plainTint,
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewColorized(colorized)),
		tablewriter.WithConfig(courseTableConfig),
	)
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	table.Header(cells...)
	return table
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
