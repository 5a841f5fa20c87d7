// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRequired(t *testing.T) {
	assert.Error(t, Required(""))
	assert.Error(t, Required("  "))
	assert.Error(t, Required([]string{}))
	assert.NoError(t, Required("syllabus"))
	assert.NoError(t, Required([]string{"a"}))
	assert.NoError(t, Required(true))
}

func TestSearchPattern(t *testing.T) {
	regex := false
	validate := SearchPattern(func() bool { return regex })

	assert.NoError(t, validate("week (1"))
	assert.Error(t, validate(""))

	regex = true
	assert.Error(t, validate("week (1"))
	assert.NoError(t, validate(`week \d+`))
}

func TestMultiSelectKeepsChoiceOrder(t *testing.T) {
	var prompt Prompt = NewMultiSelect("Validations:", []Choice{{Name: "a"}, {Name: "b"}, {Name: "c"}}, []string{"c"})
	assert.Equal(t, []string{"c"}, prompt.Value())

	prompt, _ = prompt.Update(keySpace)
	assert.Equal(t, []string{"a", "c"}, prompt.Value())

	prompt, _ = prompt.Update(runes("a"))
	assert.Equal(t, []string{"a", "b", "c"}, prompt.Value())

	prompt, _ = prompt.Update(runes("a"))
	assert.Nil(t, prompt.Value())
}

func TestConfirmKeys(t *testing.T) {
	var prompt Prompt = NewConfirm("Fix?", false)
	assert.Equal(t, false, prompt.Value())

	prompt, _ = prompt.Update(runes("y"))
	assert.Equal(t, true, prompt.Value())

	prompt, _ = prompt.Update(runes("N"))
	assert.Equal(t, false, prompt.Value())

	assert.Equal(t, true, NewConfirm("Fix?", true).Value())
}

func TestSelectMovesCursor(t *testing.T) {
	var prompt Prompt = NewSelect("Course:", []Choice{{Name: "1", Description: "BUS202"}, {Name: "2", Description: "ACC101"}})
	assert.Equal(t, "1", prompt.Value())

	prompt, _ = prompt.Update(keyDown)
	assert.Equal(t, "2", prompt.Value())
}

func TestQuestionnaireValidatesAnswers(t *testing.T) {
	input := NewInput("Search for:", "")
	model := newQuestionnaireModel([]*Question{
		{Name: "regex", Prompt: NewConfirm("Regular expression?", true)},
		{Name: "pattern", Prompt: input, Validate: ComposeValidators(Required, SearchPattern(func() bool { return true }))},
	})

	model.Update(keyEnter)
	require.Equal(t, 1, model.current)

	for _, r := range "week (1" {
		model.Update(runes(string(r)))
	}
	_, cmd := model.Update(keyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, model.current)
	assert.NotEmpty(t, input.error)
	assert.Contains(t, model.View(), "invalid regular expression")

	model.Update(runes(")"))
	model.Update(keyEnter)
	assert.True(t, model.finished)
	assert.Equal(t, map[string]any{"regex": true, "pattern": "week (1)"}, model.answers)
	assert.Empty(t, input.error)
}

func TestQuestionnaireCancel(t *testing.T) {
	model := newQuestionnaireModel([]*Question{{Name: "answer", Prompt: NewInput("Course:", "")}})
	model.Update(keyCtrlC)
	assert.ErrorIs(t, model.err, ErrCancelled)
}

func TestAnswerTypes(t *testing.T) {
	answers := map[string]any{"regex": true}

	v, err := answer[bool](answers, "regex")
	require.NoError(t, err)
	assert.True(t, v)

	_, err = answer[string](answers, "regex")
	assert.Error(t, err)

	_, err = answer[bool](answers, "missing")
	assert.Error(t, err)
}
