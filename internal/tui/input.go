// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Input asks for a line of text.
type Input struct {
	message      string
	defaultValue string
	textInput    textinput.Model
	focused      bool
	error        string
}

var _ Prompt = &Input{}

// NewInput creates a text prompt. The default value is used when the
// answer is left empty.
func NewInput(message, defaultValue string) *Input {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = "> "

	return &Input{
		message:      message,
		defaultValue: defaultValue,
		textInput:    ti,
		focused:      true,
	}
}

func (i *Input) Message() string     { return i.message }
func (i *Input) SetError(err string) { i.error = err }

// Value is the trimmed text, or the default value if empty.
func (i *Input) Value() any {
	value := strings.TrimSpace(i.textInput.Value())
	if value == "" {
		return i.defaultValue
	}
	return value
}

func (i *Input) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

func (i *Input) Render() string {
	var b strings.Builder
	renderMessage(&b, i.message, i.focused, i.defaultValue)
	b.WriteString(i.textInput.View())
	renderError(&b, i.error)
	return b.String()
}
