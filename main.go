// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lms-tools/course-check/cmd"
	"github.com/lms-tools/course-check/internal/install"
)

func main() {
	rootCmd := cmd.RootCmd()

	err := install.EnsureInstalled()
	if err != nil {
		log.Fatal(fmt.Errorf("validating installation failed: %w", err))
	}

	err = rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
