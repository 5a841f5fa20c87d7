// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const maxListHeight = 20

// Choice is an option of a select prompt.
type Choice struct {
	Name        string
	Description string
}

type choiceItem struct {
	Choice
	checked bool
}

func (i choiceItem) FilterValue() string { return i.Name }

// choiceDelegate renders choices, with checkboxes when several can be
// picked.
type choiceDelegate struct {
	checkboxes bool
}

func (d choiceDelegate) Height() int                             { return 1 }
func (d choiceDelegate) Spacing() int                            { return 0 }
func (d choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(choiceItem)
	if !ok {
		return
	}

	content := item.Name
	if item.Description != "" {
		content += helpStyle.Render(" - " + item.Description)
	}
	if d.checkboxes {
		checkbox := unselectedStyle.Render("[ ]")
		if item.checked {
			checkbox = selectedStyle.Render("[✓]")
		}
		content = checkbox + " " + content
	}

	if index == m.Index() {
		content = focusedStyle.Render("> " + content)
	} else {
		content = "  " + content
	}
	fmt.Fprint(w, content)
}

func newChoiceList(choices []Choice, checked func(Choice) bool, checkboxes bool) list.Model {
	items := make([]list.Item, len(choices))
	for i, c := range choices {
		items[i] = choiceItem{Choice: c, checked: checked != nil && checked(c)}
	}

	l := list.New(items, choiceDelegate{checkboxes: checkboxes}, 80, min(len(choices), maxListHeight))
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.Styles.PaginationStyle = helpStyle
	l.Styles.HelpStyle = helpStyle
	return l
}
