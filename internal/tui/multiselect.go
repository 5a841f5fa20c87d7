// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// MultiSelect asks for any number of choices. Its value is the list of
// checked names in the order of the choices.
type MultiSelect struct {
	message string
	list    list.Model
	focused bool
	error   string
}

var _ Prompt = &MultiSelect{}

// NewMultiSelect creates a prompt with the given names checked.
func NewMultiSelect(message string, choices []Choice, checked []string) *MultiSelect {
	return &MultiSelect{
		message: message,
		list: newChoiceList(choices, func(c Choice) bool {
			return slices.Contains(checked, c.Name)
		}, true),
		focused: true,
	}
}

func (m *MultiSelect) Message() string     { return m.message }
func (m *MultiSelect) SetError(err string) { m.error = err }

func (m *MultiSelect) Value() any {
	var result []string
	for _, listItem := range m.list.Items() {
		if item, ok := listItem.(choiceItem); ok && item.checked {
			result = append(result, item.Name)
		}
	}
	return result
}

func (m *MultiSelect) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case " ":
			m.toggle(m.list.Index())
			return m, nil
		case "a":
			m.checkAll()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *MultiSelect) toggle(index int) {
	item, ok := m.list.SelectedItem().(choiceItem)
	if !ok {
		return
	}
	item.checked = !item.checked
	m.list.SetItem(index, item)
}

// checkAll checks every choice, or unchecks them all when they already are.
func (m *MultiSelect) checkAll() {
	items := m.list.Items()
	all := true
	for _, listItem := range items {
		if item, ok := listItem.(choiceItem); ok && !item.checked {
			all = false
			break
		}
	}
	for i, listItem := range items {
		if item, ok := listItem.(choiceItem); ok {
			item.checked = !all
			items[i] = item
		}
	}
	m.list.SetItems(items)
}

func (m *MultiSelect) Render() string {
	var b strings.Builder
	renderMessage(&b, m.message, m.focused, "")
	if m.focused {
		b.WriteString(helpStyle.Render("  Use ↑↓ to navigate, space to toggle, a to toggle all, enter to confirm"))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())
	renderError(&b, m.error)
	return b.String()
}
