// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lms-tools/course-check/internal/cobraext"
	"github.com/lms-tools/course-check/internal/content"
)

const listLongDescription = `Use this command to list the available validations and whether they can fix what they find.`

func setupListCommand() *cobraext.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the validations",
		Long:  listLongDescription,
		Args:  cobra.NoArgs,
		RunE:  listCommandAction,
	}

	return cobraext.NewCommand(cmd, cobraext.ContextGlobal)
}

func listCommandAction(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return fmt.Errorf("can't load settings: %w", err)
	}

	// Listing never reaches Canvas, the content kinds are not needed.
	catalog, err := newCatalog(content.Set{}, settings.Canvas.URL, settings.Validation)
	if err != nil {
		return err
	}

	table := newTable(cmd.OutOrStdout(), "Name", "Description", "Fixable")
	for _, v := range catalog.All() {
		if err := table.Append([]string{v.Name(), v.Description(), yesNo(v.CanFix())}); err != nil {
			return fmt.Errorf("can't add %q to the table: %w", v.Name(), err)
		}
	}
	return table.Render()
}
