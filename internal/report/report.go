// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

// Package report renders validation outcomes and writes them somewhere.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/lms-tools/course-check/internal/canvas"
	"github.com/lms-tools/course-check/internal/validation"
)

// Operation that produced a report.
type Operation string

const (
	OperationCheck Operation = "check"
	OperationFix   Operation = "fix"
)

// Course identifies the course a report is about.
type Course struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Code string `json:"course_code,omitempty" yaml:"course_code,omitempty"`
}

// Entry is the outcome of one validation. Verified is the status of the
// check run again after a fix.
type Entry struct {
	validation.Outcome `yaml:",inline"`
	Verified           validation.Status `json:"verified,omitempty" yaml:"verified,omitempty"`
}

// Report of a run over a course.
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	Operation  Operation `json:"operation" yaml:"operation"`
	Host       string    `json:"host" yaml:"host"`
	Course     Course    `json:"course" yaml:"course"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Entries    []Entry   `json:"entries" yaml:"entries"`
}

// New starts a report.
func New(operation Operation, host string, course *canvas.Course, startedAt time.Time) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Operation: operation,
		Host:      host,
		Course: Course{
			ID:   course.ID,
			Name: course.Name,
			Code: course.CourseCode,
		},
		StartedAt: startedAt,
	}
}

// Add appends outcomes, replacing entries of validations already reported.
func (r *Report) Add(outcomes ...validation.Outcome) {
	for _, outcome := range outcomes {
		if i := r.index(outcome.Name); i >= 0 {
			r.Entries[i].Outcome = outcome
			continue
		}
		r.Entries = append(r.Entries, Entry{Outcome: outcome})
	}
}

// Verify records the status seen when checking again after a fix.
func (r *Report) Verify(name string, status validation.Status) {
	if i := r.index(name); i >= 0 {
		r.Entries[i].Verified = status
	}
}

// Finish sets the end time of the run.
func (r *Report) Finish(finishedAt time.Time) {
	r.FinishedAt = finishedAt
}

// Summary counts entries per status.
func (r *Report) Summary() map[validation.Status]int {
	summary := make(map[validation.Status]int)
	for _, entry := range r.Entries {
		summary[entry.Result.Status]++
	}
	return summary
}

// Failed reports whether any validation failed.
func (r *Report) Failed() bool {
	return r.Summary()[validation.Failed] > 0
}

func (r *Report) index(name string) int {
	for i, entry := range r.Entries {
		if entry.Name == name {
			return i
		}
	}
	return -1
}
