// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/content"
	"github.com/lms-tools/course-check/internal/multierror"
	"github.com/lms-tools/course-check/internal/validation"
)

var howDoIEarnIt = regexp.MustCompile(`(?i)how do i earn it\?`)

// CompletionPolicy maps module item types, like "Assignment" or "Page", to
// the completion requirement they should get.
type CompletionPolicy map[string]canvas.CompletionRequirement

// IsAffectedModuleItem reports whether an item must have a completion
// requirement. Badge instructions and items of badge claiming modules are
// excluded.
func IsAffectedModuleItem(title, moduleName string) bool {
	if howDoIEarnIt.MatchString(title) {
		return false
	}
	if strings.Contains(strings.ToLower(moduleName), "claim badge") {
		return false
	}
	return true
}

// ModuleCompletion flags the items of published modules lacking a
// completion requirement. It can only fix the item types with an entry in
// the policy, and detects only with an empty policy.
func ModuleCompletion(modules content.Modules, policy CompletionPolicy) *validation.Unit[[]canvas.ModuleItem] {
	type result = validation.Result[[]canvas.ModuleItem]
	type options = validation.ResultOptions[[]canvas.ModuleItem]

	run := func(ctx context.Context, course *canvas.Course) (result, error) {
		var flagged []canvas.ModuleItem
		var messages []validation.Message
		for module, err := range modules.List(ctx, course.ID, nil) {
			if err != nil {
				return result{}, fmt.Errorf("can't list modules: %w", err)
			}
			if !module.Published {
				continue
			}
			for item, err := range content.ItemsOf(ctx, modules, course.ID, module) {
				if err != nil {
					return result{}, fmt.Errorf("can't list items of module %q: %w", module.Name, err)
				}
				if item.CompletionRequirement != nil || !IsAffectedModuleItem(item.Title, module.Name) {
					continue
				}
				if item.ModuleID == 0 {
					item.ModuleID = module.ID
				}
				flagged = append(flagged, item)
				messages = append(messages, validation.Message{
					BodyLines: []string{item.Title},
					Links:     nonEmpty(item.HTMLURL),
				})
			}
		}

		if len(flagged) == 0 {
			return validation.New(validation.Passed, options{
				NotFailureMessage: validation.Text("All module items have completion requirements"),
			}), nil
		}
		return validation.New(validation.Failed, options{
			FailureMessage: messages,
			UserData:       flagged,
		}), nil
	}

	if len(policy) == 0 {
		return validation.NewUnit(ModuleCompletionName, moduleCompletionDescription, run, nil)
	}

	fix := func(ctx context.Context, course *canvas.Course, failed result) (result, error) {
		if len(failed.UserData) == 0 {
			return validation.New(validation.Failed, options{
				FailureMessage: validation.Text("Failed to fix: no module items to update"),
			}), nil
		}

		var errs multierror.Error
		var updated, remaining []canvas.ModuleItem
		var skipped []string
		for _, item := range failed.UserData {
			requirement, found := policy[item.Type]
			if !found {
				skipped = append(skipped, fmt.Sprintf("%s (%s)", item.Title, item.Type))
				remaining = append(remaining, item)
				continue
			}
			patched, err := modules.Items(item.ModuleID).Put(ctx, course.ID, item.ID, canvas.ModuleItemUpdate{
				CompletionRequirement: &requirement,
			})
			if err != nil {
				errs.Append(err)
				remaining = append(remaining, item)
				continue
			}
			updated = append(updated, patched)
		}

		if len(remaining) == 0 {
			return validation.New(validation.Passed, options{
				NotFailureMessage: validation.Text(fmt.Sprintf("Added completion requirements to %d module items", len(updated))),
				UserData:          updated,
			}), nil
		}

		messages := validation.Text(fmt.Sprintf("Updated %d of %d module items, the others were left unchanged", len(updated), len(failed.UserData)))
		if len(skipped) > 0 {
			messages = append(messages, validation.Message{BodyLines: append([]string{"No completion policy for:"}, skipped...)})
		}
		for _, err := range errs {
			messages = append(messages, validation.Message{BodyLines: []string{err.Error()}})
		}
		return validation.New(validation.Failed, options{
			FailureMessage: messages,
			UserData:       remaining,
		}), nil
	}
	return validation.NewUnit(ModuleCompletionName, moduleCompletionDescription, run, fix)
}
