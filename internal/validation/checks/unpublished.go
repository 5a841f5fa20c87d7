// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package checks

import (
	"context"
	"fmt"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/content"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/validation"
)

// UnpublishedItems flags unpublished items inside published modules, which
// students see as missing content. Its fix publishes them one by one.
func UnpublishedItems(modules content.Modules) *validation.Unit[[]canvas.ModuleItem] {
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
				// Headers and other items without content have no published state.
				if item.Published == nil || *item.Published {
					continue
				}
				if item.ModuleID == 0 {
					item.ModuleID = module.ID
				}
				flagged = append(flagged, item)
				messages = append(messages, validation.Message{
					BodyLines: []string{fmt.Sprintf("%s (module %q)", item.Title, module.Name)},
					Links:     nonEmpty(item.HTMLURL),
				})
			}
		}
		if len(flagged) == 0 {
			return validation.New(validation.Passed, options{
				NotFailureMessage: validation.Text("Published modules have no unpublished items"),
			}), nil
		}
		return validation.New(validation.Failed, options{
			FailureMessage: messages,
			UserData:       flagged,
		}), nil
	}

	fix := func(ctx context.Context, course *canvas.Course, failed result) (result, error) {
		if len(failed.UserData) == 0 {
			return validation.New(validation.Failed, options{
				FailureMessage: validation.Text("Failed to fix: no module items to publish"),
			}), nil
		}

		published := true
		var done, untouched []canvas.ModuleItem
		var lines []string
		for i, item := range failed.UserData {
			patched, err := modules.Items(item.ModuleID).Put(ctx, course.ID, item.ID, canvas.ModuleItemUpdate{Published: &published})
			if err != nil {
				// Items are published one at a time, the ones before stay published.
				untouched = failed.UserData[i:]
				lines = append(lines, err.Error())
				break
			}
			logger.Infof("Published module item %d of course %d", item.ID, course.ID)
			done = append(done, patched)
		}

		if len(untouched) > 0 {
			messages := validation.Text(fmt.Sprintf("Published %d of %d items before failing, these were left unpublished:", len(done), len(failed.UserData)))
			for _, item := range untouched {
				messages = append(messages, validation.Message{BodyLines: []string{item.Title}, Links: nonEmpty(item.HTMLURL)})
			}
			messages = append(messages, validation.Message{BodyLines: lines})
			return validation.New(validation.Failed, options{
				FailureMessage: messages,
				UserData:       untouched,
			}), nil
		}
		return validation.New(validation.Passed, options{
			NotFailureMessage: validation.Text(fmt.Sprintf("Published %d module items", len(done))),
			UserData:          done,
		}), nil
	}

	return validation.NewUnit(UnpublishedItemsName, unpublishedItemsDescription, run, fix)
}
