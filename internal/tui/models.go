// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

// Package tui implements the interactive prompts used to pick courses,
// validations and fixes.
package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Question is a prompt whose answer is stored under Name.
type Question struct {
	Name     string
	Prompt   Prompt
	Validate Validator
}

// Prompt is a single interactive question.
type Prompt interface {
	Render() string
	Update(msg tea.Msg) (Prompt, tea.Cmd)
	Value() any
	Message() string
}

// Validator checks an answer before accepting it.
type Validator func(any) error

var (
	focusedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	unselectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ComposeValidators combines validators, the first error wins.
func ComposeValidators(validators ...Validator) Validator {
	return func(val any) error {
		for _, validator := range validators {
			if err := validator(val); err != nil {
				return err
			}
		}
		return nil
	}
}

// Required rejects empty strings and empty selections.
func Required(val any) error {
	switch v := val.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return errors.New("this field is required")
		}
	case []string:
		if len(v) == 0 {
			return errors.New("at least one option must be selected")
		}
	}
	return nil
}

func renderMessage(b *strings.Builder, message string, focused bool, hint string) {
	style := blurredStyle
	if focused {
		style = focusedStyle
	}
	b.WriteString(style.Render(message))
	if hint != "" {
		b.WriteString(helpStyle.Render(" (" + hint + ")"))
	}
	b.WriteString("\n")
}

func renderError(b *strings.Builder, err string) {
	if err == "" {
		return
	}
	b.WriteString("\n")
	b.WriteString(errorStyle.Render("✗ " + err))
}
