// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	yesChoice = "Yes"
	noChoice  = "No"
)

// Confirm asks a yes or no question. Besides the arrows, y and n pick the
// answer.
type Confirm struct {
	message      string
	defaultValue bool
	list         list.Model
	focused      bool
	error        string
}

var _ Prompt = &Confirm{}

// NewConfirm creates a confirmation with the cursor on the default answer.
func NewConfirm(message string, defaultValue bool) *Confirm {
	l := newChoiceList([]Choice{{Name: yesChoice}, {Name: noChoice}}, nil, false)
	if !defaultValue {
		l.Select(1)
	}
	return &Confirm{
		message:      message,
		defaultValue: defaultValue,
		list:         l,
		focused:      true,
	}
}

func (c *Confirm) Message() string     { return c.message }
func (c *Confirm) SetError(err string) { c.error = err }

func (c *Confirm) Value() any {
	if item, ok := c.list.SelectedItem().(choiceItem); ok {
		return item.Name == yesChoice
	}
	return c.defaultValue
}

func (c *Confirm) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch strings.ToLower(key.String()) {
		case "y":
			c.list.Select(0)
			return c, nil
		case "n":
			c.list.Select(1)
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.list, cmd = c.list.Update(msg)
	return c, cmd
}

func (c *Confirm) Render() string {
	hint := "y/N"
	if c.defaultValue {
		hint = "Y/n"
	}
	var b strings.Builder
	renderMessage(&b, c.message, c.focused, hint)
	b.WriteString(c.list.View())
	renderError(&b, c.error)
	return b.String()
}
