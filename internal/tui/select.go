// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Select asks for one of several choices. Its value is the choice name.
type Select struct {
	message string
	list    list.Model
	focused bool
	error   string
}

var _ Prompt = &Select{}

// NewSelect creates a select prompt with the cursor on the first choice.
func NewSelect(message string, choices []Choice) *Select {
	return &Select{
		message: message,
		list:    newChoiceList(choices, nil, false),
		focused: true,
	}
}

func (s *Select) Message() string     { return s.message }
func (s *Select) SetError(err string) { s.error = err }

func (s *Select) Value() any {
	if item, ok := s.list.SelectedItem().(choiceItem); ok {
		return item.Name
	}
	return ""
}

func (s *Select) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *Select) Render() string {
	var b strings.Builder
	renderMessage(&b, s.message, s.focused, "")
	b.WriteString(s.list.View())
	renderError(&b, s.error)
	return b.String()
}
