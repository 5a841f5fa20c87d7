// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package validation

import "reflect"

// Status is the outcome of a validation.
type Status string

const (
	Passed Status = "passed"
	Failed Status = "failed"
	// NotRun means the validation does not apply, like a fix on content
	// that already passes or a check limited to some courses.
	NotRun Status = "not run"
	// Unknown means the validation could not decide, usually because the
	// content it inspects does not exist.
	Unknown Status = "unknown"
)

// Indeterminate reports whether the status is neither passed nor failed.
func (s Status) Indeterminate() bool {
	return s == NotRun || s == Unknown
}

// Message is an explanation block. The first block of a result is the
// primary one.
type Message struct {
	BodyLines []string `json:"body_lines" yaml:"body_lines"`
	Links     []string `json:"links,omitempty" yaml:"links,omitempty"`
}

// Text builds a single message block with the given lines.
func Text(lines ...string) []Message {
	return []Message{{BodyLines: lines}}
}

// Result of running or fixing a validation. UserData carries what a fix
// needs to act, typically the offending content.
type Result[T any] struct {
	Status   Status    `json:"status" yaml:"status"`
	Messages []Message `json:"messages" yaml:"messages"`
	UserData T         `json:"-" yaml:"-"`
	Links    []string  `json:"links,omitempty" yaml:"links,omitempty"`
}

// ResultOptions are the optional parts of a result.
type ResultOptions[T any] struct {
	// FailureMessage is attached when the status is Failed.
	FailureMessage []Message
	// NotFailureMessage is attached with any other status.
	NotFailureMessage []Message
	UserData          T
	Links             []string
}

// New builds a result, picking the message matching the status. Results
// that did not run never carry user data.
func New[T any](status Status, opts ResultOptions[T]) Result[T] {
	result := Result[T]{
		Status: status,
		Links:  opts.Links,
	}
	if status == Failed {
		result.Messages = opts.FailureMessage
	} else {
		result.Messages = opts.NotFailureMessage
	}
	if result.Messages == nil {
		result.Messages = []Message{}
	}
	if status != NotRun {
		result.UserData = opts.UserData
	}
	return result
}

// Failure builds a failed result explaining err.
func Failure[T any](err error) Result[T] {
	return New(Failed, ResultOptions[T]{FailureMessage: Text(err.Error())})
}

// Erase converts the result for callers not knowing its user data type.
// Zero user data, like a nil slice, is erased as nil.
func (r Result[T]) Erase() Result[any] {
	erased := Result[any]{
		Status:   r.Status,
		Messages: r.Messages,
		Links:    r.Links,
	}
	if v := reflect.ValueOf(&r.UserData).Elem(); !v.IsZero() {
		erased.UserData = r.UserData
	}
	return erased
}

// Restore converts an erased result back. User data of another type is
// dropped and reported with ok set to false.
func Restore[T any](r Result[any]) (restored Result[T], ok bool) {
	restored = Result[T]{
		Status:   r.Status,
		Messages: r.Messages,
		Links:    r.Links,
	}
	restored.UserData, ok = r.UserData.(T)
	return restored, ok
}

// withDefaultMessage makes sure that every result explains itself.
func withDefaultMessage[T any](r Result[T]) Result[T] {
	if len(r.Messages) > 0 {
		return r
	}
	switch r.Status {
	case Passed:
		r.Messages = Text("Check passed.")
	case Failed:
		r.Messages = Text("Check failed.")
	case NotRun:
		r.Messages = Text("Check did not run.")
	default:
		r.Messages = Text("Check result is unknown.")
	}
	return r
}
