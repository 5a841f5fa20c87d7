// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/validation"
)

// Names of the answers of the search questionnaire.
const (
	searchPatternAnswer  = "pattern"
	searchRegexAnswer    = "regex"
	searchCaseSensAnswer = "case_sensitive"
)

// SearchPattern rejects patterns that would not compile. regex tells
// whether the pattern is read as a regular expression.
func SearchPattern(regex func() bool) Validator {
	return func(val any) error {
		pattern, _ := val.(string)
		_, err := validation.CompileSearch(validation.SearchOptions{Pattern: pattern, Regex: regex()})
		return err
	}
}

// SelectValidations asks which validations to run. All of them are checked
// at first.
func SelectValidations(catalog *validation.Catalog) ([]string, error) {
	var choices []Choice
	var names []string
	for _, v := range catalog.All() {
		choices = append(choices, Choice{Name: v.Name(), Description: v.Description()})
		names = append(names, v.Name())
	}
	return AskOne[[]string](NewMultiSelect("Validations to run:", choices, names), Required)
}

// AskSearch asks for an optional content search. The returned options have
// an empty pattern when no search is wanted.
func AskSearch() (validation.SearchOptions, error) {
	wants, err := AskOne[bool](NewConfirm("Search course content for some text?", false))
	if err != nil || !wants {
		return validation.SearchOptions{}, err
	}

	regex := NewConfirm("Is it a regular expression?", false)
	caseSensitive := NewConfirm("Case sensitive?", false)
	isRegex := func() bool {
		v, _ := regex.Value().(bool)
		return v
	}
	answers, err := Ask(
		&Question{Name: searchRegexAnswer, Prompt: regex},
		&Question{Name: searchCaseSensAnswer, Prompt: caseSensitive},
		&Question{
			Name:     searchPatternAnswer,
			Prompt:   NewInput("Search for:", ""),
			Validate: ComposeValidators(Required, SearchPattern(isRegex)),
		},
	)
	if err != nil {
		return validation.SearchOptions{}, err
	}

	var opts validation.SearchOptions
	if opts.Pattern, err = answer[string](answers, searchPatternAnswer); err != nil {
		return opts, err
	}
	if opts.Regex, err = answer[bool](answers, searchRegexAnswer); err != nil {
		return opts, err
	}
	if opts.CaseSensitive, err = answer[bool](answers, searchCaseSensAnswer); err != nil {
		return opts, err
	}
	return opts, nil
}

// ConfirmFix asks whether to fix a failed validation.
func ConfirmFix(outcome validation.Outcome) (bool, error) {
	return AskOne[bool](NewConfirm(fmt.Sprintf("Fix %q?", outcome.Name), false))
}

// SelectCourse asks to pick one of the courses found.
func SelectCourse(courses []canvas.Course) (canvas.Course, error) {
	if len(courses) == 0 {
		return canvas.Course{}, errors.New("no courses to select")
	}
	choices := make([]Choice, len(courses))
	for i, c := range courses {
		choices[i] = Choice{Name: strconv.Itoa(c.ID), Description: c.Name}
	}
	picked, err := AskOne[string](NewSelect("Course:", choices))
	if err != nil {
		return canvas.Course{}, err
	}
	for _, c := range courses {
		if strconv.Itoa(c.ID) == picked {
			return c, nil
		}
	}
	return canvas.Course{}, fmt.Errorf("unknown course %q", picked)
}
