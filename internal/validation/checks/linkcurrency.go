// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/content"
	"github.com/lms-tools/course-check/internal/htmlutil"
	"github.com/lms-tools/course-check/internal/logger"
	"github.com/lms-tools/course-check/internal/validation"
)

// LinkCurrencyOptions describe an outdated link expected in some content.
type LinkCurrencyOptions[T, U any] struct {
	Name        string
	Description string

	Kind content.Kind[T, U]
	// SearchTerm finds the content by title.
	SearchTerm string
	// ContentName is used in messages, like "Introductions discussion".
	ContentName string

	DeprecatedURL string
	CurrentURL    string

	// Update builds the minimal update setting a new body.
	Update func(item T, body string) U
}

// LinkCurrency returns a validation failing when the first content titled
// after the search term still links to the deprecated URL. Its fix replaces
// every occurrence of the deprecated URL with the current one.
func LinkCurrency[T, U any](opts LinkCurrencyOptions[T, U]) *validation.Unit[T] {
	kind := opts.Kind

	run := func(ctx context.Context, course *canvas.Course) (validation.Result[T], error) {
		listOpts := &canvas.RequestOptions{SearchTerm: opts.SearchTerm}
		item, found, err := content.First(kind.List(ctx, course.ID, listOpts), func(item T) bool {
			return kind.Is(item) && containsFold(kind.Title(item), opts.SearchTerm)
		})
		if err != nil {
			return validation.Result[T]{}, fmt.Errorf("can't look for %s: %w", opts.ContentName, err)
		}
		if !found {
			return validation.New(validation.Unknown, validation.ResultOptions[T]{
				NotFailureMessage: validation.Text(opts.ContentName + " not found"),
			}), nil
		}

		links := nonEmpty(kind.HTMLURL(item))
		if strings.Contains(kind.Body(item), opts.DeprecatedURL) {
			return validation.New(validation.Failed, validation.ResultOptions[T]{
				FailureMessage: []validation.Message{{
					BodyLines: []string{fmt.Sprintf("%s links to the outdated %s", opts.ContentName, opts.DeprecatedURL)},
					Links:     links,
				}},
				UserData: item,
				Links:    links,
			}), nil
		}
		return validation.New(validation.Passed, validation.ResultOptions[T]{
			NotFailureMessage: validation.Text(opts.ContentName + " has no outdated links"),
			UserData:          item,
			Links:             links,
		}), nil
	}

	fix := func(ctx context.Context, course *canvas.Course, failed validation.Result[T]) (validation.Result[T], error) {
		item := failed.UserData
		if !kind.Is(item) {
			return validation.New(validation.Failed, validation.ResultOptions[T]{
				FailureMessage: validation.Text(fmt.Sprintf("Failed to fix: %s was not located", opts.ContentName)),
			}), nil
		}

		before := kind.Body(item)
		after := strings.ReplaceAll(before, opts.DeprecatedURL, opts.CurrentURL)
		updated, err := kind.Put(ctx, course.ID, kind.ID(item), opts.Update(item, after))
		if err != nil {
			return validation.New(validation.Failed, validation.ResultOptions[T]{
				FailureMessage: validation.Text(err.Error()),
				UserData:       item,
			}), nil
		}
		if !kind.Is(updated) {
			return validation.New(validation.Failed, validation.ResultOptions[T]{
				FailureMessage: validation.Text(fmt.Sprintf("Failed to update %s", opts.ContentName)),
				UserData:       item,
			}), nil
		}
		logger.Infof("Replaced %s with %s in %s %d of course %d", opts.DeprecatedURL, opts.CurrentURL, kind.Name(), kind.ID(item), course.ID)

		messages := validation.Text(fmt.Sprintf("Replaced %s with %s in %s", opts.DeprecatedURL, opts.CurrentURL, opts.ContentName))
		if diff, err := htmlutil.Diff(before, kind.Body(updated)); err == nil && diff != "" {
			messages = append(messages, validation.Message{BodyLines: strings.Split(strings.TrimSpace(diff), "\n")})
		}
		links := nonEmpty(kind.HTMLURL(updated))
		messages[0].Links = links
		return validation.New(validation.Passed, validation.ResultOptions[T]{
			NotFailureMessage: messages,
			UserData:          updated,
			Links:             links,
		}), nil
	}

	return validation.NewUnit(opts.Name, opts.Description, run, fix)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func nonEmpty(values ...string) []string {
	var result []string
	for _, v := range values {
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
