// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/controlrox/ladder/services/ladder/dialect"
	"github.com/controlrox/ladder/services/ladder/rung"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	validateWatch    bool   // Re-validate on file change
	validateDocument bool   // Treat the file as a vendor export document
	validateDialect  string // Dialect override for --document
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// validateCmd checks rung text files for structural malformations.
//
// # Description
//
// Reads a file of rung text, one rung per line, and reports unmatched
// branch tokens and stray separators per rung. With --document the
// file is decoded as a YAML vendor export instead and the lifted rungs
// are fully compiled; the dialect comes from ladder.yaml unless
// --dialect overrides it.
//
// # Examples
//
//	ladder validate routine.txt
//	ladder validate routine.txt --watch
//	ladder validate main.l5x.yaml --document --dialect rockwell
var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate branch structure of rung text",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateCommand,
}

func init() {
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false,
		"Re-validate whenever the file changes")
	validateCmd.Flags().BoolVar(&validateDocument, "document", false,
		"Decode the file as a vendor export document")
	validateCmd.Flags().StringVarP(&validateDialect, "dialect", "d", "",
		"Vendor dialect for --document (defaults to the configured dialect)")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runValidateCommand(cmd *cobra.Command, args []string) error {
	path := args[0]

	if err := validateFile(cmd, path); err != nil && !validateWatch {
		return err
	}
	if !validateWatch {
		return nil
	}
	return watchAndValidate(cmd, path)
}

// validateFile runs one validation pass and prints per-rung findings.
func validateFile(cmd *cobra.Command, path string) error {
	if validateDocument || validateDialect != "" {
		return validateExport(cmd, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	failures := 0
	number := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		r := rung.New(rung.Config{Number: number, Text: text})
		if err := r.ValidateBranchStructure(); err != nil {
			failures++
			cmd.PrintErrf("FAIL %v\n", err)
		}
		number++
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d rung(s) malformed", failures, number)
	}
	cmd.Printf("OK: %d rung(s) valid\n", number)
	return nil
}

// validateExport decodes a vendor export and compiles the routine.
func validateExport(cmd *cobra.Command, path string) error {
	name := validateDialect
	if name == "" {
		name = config.Dialect
	}
	src, err := dialect.Get(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	routine, err := dialect.CompileRoutine(context.Background(), path, src, doc, logger)
	if err != nil {
		return err
	}
	cmd.Printf("OK: %d rung(s) compiled from %s document\n", routine.Len(), src.Name())
	return nil
}

// watchAndValidate re-runs validation whenever the file is written.
// Blocks until interrupted.
func watchAndValidate(cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	cmd.Printf("watching %s\n", path)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				if err := validateFile(cmd, path); err != nil {
					cmd.PrintErrln(err)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("watch error: %v\n", err)
		case <-interrupt:
			return nil
		}
	}
}
