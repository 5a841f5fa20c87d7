// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package validation

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/logger"
)

const defaultConcurrency = 4

// Outcome is the last known result of a validation.
type Outcome struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	CanFix      bool        `json:"can_fix" yaml:"can_fix"`
	Result      Result[any] `json:"result" yaml:"result"`
}

// Session keeps the validations selected by an operator, the optional
// content search and the last result of each of them per course.
type Session struct {
	catalog     *Catalog
	concurrency int

	mutex    sync.Mutex
	selected []Validation
	search   Validation
	last     map[resultKey]Result[any]

	fixLocks keyedMutex
}

type resultKey struct {
	courseID int
	name     string
}

// SessionOption configures a session.
type SessionOption func(*Session)

// Concurrency sets how many validations run at the same time.
func Concurrency(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewSession creates a session over the catalog with nothing selected.
func NewSession(catalog *Catalog, opts ...SessionOption) *Session {
	s := &Session{
		catalog:     catalog,
		concurrency: defaultConcurrency,
		last:        make(map[resultKey]Result[any]),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the validations available to the session.
func (s *Session) Catalog() *Catalog {
	return s.catalog
}

// Select adds validations by exact name.
func (s *Session) Select(names ...string) error {
	for _, name := range names {
		v, found := s.catalog.Get(name)
		if !found {
			return fmt.Errorf("unknown validation %q", name)
		}
		s.add(v)
	}
	return nil
}

// SelectMatching adds the validations matching each glob pattern. A pattern
// matching nothing is an error.
func (s *Session) SelectMatching(patterns ...string) error {
	for _, pattern := range patterns {
		matched, err := s.catalog.Match(pattern)
		if err != nil {
			return err
		}
		if len(matched) == 0 {
			return fmt.Errorf("no validation matches %q", pattern)
		}
		for _, v := range matched {
			s.add(v)
		}
	}
	return nil
}

// SelectAll selects the whole catalog.
func (s *Session) SelectAll() {
	for _, v := range s.catalog.All() {
		s.add(v)
	}
}

func (s *Session) add(v Validation) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if slices.Contains(s.selected, v) {
		return
	}
	s.selected = append(s.selected, v)
}

// SetSearch replaces the content search. Build it with NewSearch, which
// rejects invalid patterns. A nil search removes it.
func (s *Session) SetSearch(search Validation) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.search = search
	for key := range s.last {
		if key.name == SearchName {
			delete(s.last, key)
		}
	}
}

// Selected returns the selected validations in catalog order, followed by
// the content search if any.
func (s *Session) Selected() []Validation {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var selected []Validation
	for _, v := range s.catalog.All() {
		if slices.Contains(s.selected, v) {
			selected = append(selected, v)
		}
	}
	if s.search != nil {
		selected = append(selected, s.search)
	}
	return selected
}

func (s *Session) lookup(name string) (Validation, bool) {
	for _, v := range s.Selected() {
		if v.Name() == name {
			return v, true
		}
	}
	return nil, false
}

// Run runs every selected validation on the course and returns their
// outcomes in selection order. Validations run concurrently. Once ctx is
// done no more validations are started, the ones already running finish.
func (s *Session) Run(ctx context.Context, course *canvas.Course) []Outcome {
	selected := s.Selected()
	outcomes := make([]Outcome, len(selected))

	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, v := range selected {
		outcomes[i] = outcome(v, New(NotRun, ResultOptions[any]{NotFailureMessage: Text("Cancelled before running.")}))
		if ctx.Err() != nil {
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			result := v.Run(context.WithoutCancel(ctx), course)
			outcomes[i] = outcome(v, result)
			return nil
		})
	}
	_ = g.Wait()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, o := range outcomes {
		s.last[resultKey{course.ID, o.Name}] = o.Result
	}
	logger.Debugf("Ran %d validations on course %d", len(outcomes), course.ID)
	return outcomes
}

// Fix fixes a selected validation using its last result on the course.
// Fixes on the same course never run at the same time. The returned
// outcome replaces the last result, and the next Run inspects the course
// again.
func (s *Session) Fix(ctx context.Context, course *canvas.Course, name string) (Outcome, error) {
	v, found := s.lookup(name)
	if !found {
		return Outcome{}, fmt.Errorf("validation %q is not selected", name)
	}

	unlock := s.fixLocks.lock(course.ID)
	defer unlock()

	var last *Result[any]
	if result, found := s.Last(course.ID, name); found {
		last = &result
	}
	result := v.Fix(ctx, course, last)

	s.mutex.Lock()
	s.last[resultKey{course.ID, name}] = result
	s.mutex.Unlock()

	return outcome(v, result), nil
}

// Last returns the last result of a validation on a course.
func (s *Session) Last(courseID int, name string) (Result[any], bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	result, found := s.last[resultKey{courseID, name}]
	return result, found
}

func outcome(v Validation, result Result[any]) Outcome {
	return Outcome{
		Name:        v.Name(),
		Description: v.Description(),
		CanFix:      v.CanFix(),
		Result:      result,
	}
}

// keyedMutex serializes work per key.
type keyedMutex struct {
	mutex sync.Mutex
	locks map[int]*sync.Mutex
}

func (k *keyedMutex) lock(key int) (unlock func()) {
	k.mutex.Lock()
	if k.locks == nil {
		k.locks = make(map[int]*sync.Mutex)
	}
	l, found := k.locks[key]
	if !found {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mutex.Unlock()

	l.Lock()
	return l.Unlock
}
