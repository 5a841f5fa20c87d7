// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the operator interrupts a prompt.
var ErrCancelled = errors.New("cancelled by user")

// questionnaireModel asks questions one after the other.
type questionnaireModel struct {
	questions []*Question
	current   int
	answers   map[string]any
	finished  bool
	err       error
	width     int
}

func newQuestionnaireModel(questions []*Question) *questionnaireModel {
	return &questionnaireModel{
		questions: questions,
		answers:   make(map[string]any),
		width:     80,
	}
}

func (m *questionnaireModel) Init() tea.Cmd {
	return nil
}

func (m *questionnaireModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.finished {
			return m, tea.Quit
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			m.err = ErrCancelled
			return m, tea.Quit
		case "enter":
			question := m.questions[m.current]
			value := question.Prompt.Value()
			if question.Validate != nil {
				if err := question.Validate(value); err != nil {
					setError(question.Prompt, err.Error())
					return m, nil
				}
			}
			setError(question.Prompt, "")
			m.answers[question.Name] = value

			m.current++
			if m.current >= len(m.questions) {
				m.finished = true
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.finished || m.current >= len(m.questions) {
		return m, nil
	}
	question := m.questions[m.current]
	var cmd tea.Cmd
	question.Prompt, cmd = question.Prompt.Update(msg)
	return m, cmd
}

func setError(prompt Prompt, err string) {
	if p, ok := prompt.(interface{ SetError(string) }); ok {
		p.SetError(err)
	}
}

func (m *questionnaireModel) View() string {
	if m.finished || m.current >= len(m.questions) {
		return ""
	}

	var b strings.Builder
	if len(m.questions) > 1 {
		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			Width(m.width).
			Align(lipgloss.Center)
		b.WriteString(header.Render(fmt.Sprintf("Question %d of %d", m.current+1, len(m.questions))))
		b.WriteString("\n\n")
	}

	prompt := m.questions[m.current].Prompt
	b.WriteString(prompt.Render())
	b.WriteString("\n\n")

	instructions := "Press Enter to continue, Ctrl+C to cancel"
	switch prompt.(type) {
	case *MultiSelect:
		instructions = "Use ↑↓ to navigate, Space to select, Enter to continue, Ctrl+C to cancel"
	case *Select, *Confirm:
		instructions = "Use ↑↓ to navigate, Enter to continue, Ctrl+C to cancel"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Render(instructions))
	return b.String()
}

// Ask runs the questions and returns the answers by question name.
func Ask(questions ...*Question) (map[string]any, error) {
	final, err := tea.NewProgram(newQuestionnaireModel(questions)).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run questionnaire: %w", err)
	}
	result := final.(*questionnaireModel)
	if result.err != nil {
		return nil, result.err
	}
	return result.answers, nil
}

// AskOne runs a single prompt and returns its answer.
func AskOne[T any](prompt Prompt, validators ...Validator) (T, error) {
	var zero T
	question := &Question{Name: "answer", Prompt: prompt}
	if len(validators) > 0 {
		question.Validate = ComposeValidators(validators...)
	}
	answers, err := Ask(question)
	if err != nil {
		return zero, err
	}
	return answer[T](answers, question.Name)
}

func answer[T any](answers map[string]any, name string) (T, error) {
	var zero T
	raw, found := answers[name]
	if !found {
		return zero, fmt.Errorf("no answer received for %q", name)
	}
	value, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected answer type %T for %q", raw, name)
	}
	return value, nil
}
