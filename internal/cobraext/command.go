// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cobraext

import (
	"fmt"

	"github.com/spf13/cobra"
)

type CommandContext string

const (
	ContextGlobal CommandContext = "global"
	ContextCourse CommandContext = "course"
)

type Command struct {
	*cobra.Command

	longDesc string

	// Context of command: global or course
	ctxt CommandContext
}

func NewCommand(cmd *cobra.Command, context CommandContext) *Command {
	c := Command{
		Command: cmd,
		ctxt:    context,
	}

	c.longDesc = cmd.Long
	cmd.Long = fmt.Sprintf("%s\n\nContext: %s\n", c.longDesc, c.ctxt)

	return &c
}

func (c *Command) Name() string {
	return c.Command.Name()
}

func (c *Command) Short() string {
	return c.Command.Short
}

func (c *Command) Long() string {
	return c.longDesc
}

func (c *Command) Context() CommandContext {
	return c.ctxt
}

// CommandAction is the signature of a cobra RunE or PreRunE function.
type CommandAction func(cmd *cobra.Command, args []string) error

// ComposeCommandActions runs the actions in order and stops at the first
// failing one, so later steps can rely on the state prepared by earlier ones.
func ComposeCommandActions(cmd *cobra.Command, args []string, actions ...CommandAction) error {
	for _, action := range actions {
		if err := action(cmd, args); err != nil {
			return err
		}
	}
	return nil
}
