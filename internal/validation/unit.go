// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package validation

import (
	"context"
	"fmt"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/logger"
)

// Validation checks one rule against a course and optionally fixes it.
// Run and Fix never fail: errors are reported as failed results.
type Validation interface {
	// Name identifies the validation. It is shown to operators and used to
	// select validations, so it must not change.
	Name() string
	Description() string
	// CanFix reports whether Fix can remediate a failure.
	CanFix() bool

	// Run inspects the course without modifying it.
	Run(ctx context.Context, course *canvas.Course) Result[any]
	// Fix remediates the failure described by last. Without last, the
	// validation is run first. Fixing a result that did not fail does
	// nothing and returns NotRun.
	Fix(ctx context.Context, course *canvas.Course, last *Result[any]) Result[any]
}

// RunFunc inspects a course.
type RunFunc[T any] func(ctx context.Context, course *canvas.Course) (Result[T], error)

// FixFunc remediates a failed result.
type FixFunc[T any] func(ctx context.Context, course *canvas.Course, failed Result[T]) (Result[T], error)

// Unit is a Validation built from functions working with typed user data.
type Unit[T any] struct {
	name        string
	description string
	run         RunFunc[T]
	fix         FixFunc[T]
}

// NewUnit creates a validation. fix can be nil for validations that only
// detect problems.
func NewUnit[T any](name, description string, run RunFunc[T], fix FixFunc[T]) *Unit[T] {
	return &Unit[T]{
		name:        name,
		description: description,
		run:         run,
		fix:         fix,
	}
}

func (u *Unit[T]) Name() string        { return u.name }
func (u *Unit[T]) Description() string { return u.description }
func (u *Unit[T]) CanFix() bool        { return u.fix != nil }

// Check runs the validation keeping the user data type.
func (u *Unit[T]) Check(ctx context.Context, course *canvas.Course) (result Result[T]) {
	defer u.guard("run", &result)

	logger.Debugf("Running %q on course %d", u.name, course.ID)
	result, err := u.run(ctx, course)
	if err != nil {
		logger.Debugf("Validation %q failed with error: %v", u.name, err)
		return Failure[T](err)
	}
	logger.Debugf("Validation %q on course %d: %s", u.name, course.ID, result.Status)
	return result
}

// Remediate fixes the validation keeping the user data type.
func (u *Unit[T]) Remediate(ctx context.Context, course *canvas.Course, last *Result[T]) (result Result[T]) {
	defer u.guard("fix", &result)

	if u.fix == nil {
		return New(NotRun, ResultOptions[T]{NotFailureMessage: Text("This check detects problems only, it has no automatic fix.")})
	}

	var current Result[T]
	if last == nil {
		current = u.Check(ctx, course)
	} else {
		current = *last
	}
	if current.Status != Failed {
		return New(NotRun, ResultOptions[T]{NotFailureMessage: Text(fmt.Sprintf("Nothing to fix, the check is %s.", current.Status))})
	}

	logger.Infof("Fixing %q on course %d", u.name, course.ID)
	result, err := u.fix(ctx, course, current)
	if err != nil {
		logger.Debugf("Fix of %q failed with error: %v", u.name, err)
		return New(Failed, ResultOptions[T]{FailureMessage: Text("Failed to fix: " + err.Error())})
	}
	return result
}

func (u *Unit[T]) Run(ctx context.Context, course *canvas.Course) Result[any] {
	return u.Check(ctx, course).Erase()
}

func (u *Unit[T]) Fix(ctx context.Context, course *canvas.Course, last *Result[any]) Result[any] {
	if last == nil {
		return u.Remediate(ctx, course, nil).Erase()
	}
	typed, ok := Restore[T](*last)
	if !ok && last.UserData != nil {
		logger.Debugf("Discarding user data of type %T given to %q", last.UserData, u.name)
	}
	return u.Remediate(ctx, course, &typed).Erase()
}

// guard converts panics into failed results and fills in missing messages.
func (u *Unit[T]) guard(operation string, result *Result[T]) {
	if r := recover(); r != nil {
		logger.Errorf("Validation %q panicked during %s: %v", u.name, operation, r)
		*result = Failure[T](fmt.Errorf("unexpected error during %s: %v", operation, r))
	}
	*result = withDefaultMessage(*result)
}
