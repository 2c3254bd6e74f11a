// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"

	"github.com/controlrox/ladder/services/ladder/dialect"
)

// =============================================================================
// ROOT COMMAND
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "ladder",
	Short: "Inspect and edit PLC ladder logic rung structure",
	Long: `ladder parses the branch structure of ladder logic rung text.

It tokenizes rung text such as XIC(A)[OTE(B),OTE(C)]; into instruction
calls and branch symbols, compiles the parallel branch topology, and
supports structural queries and edits that re-serialize to valid text.

Examples:
  ladder tokens "XIC(A)[OTE(B),OTE(C)];"
  ladder tree "XIC(A)[OTE(B),[OTE(C),OTE(D)]];"
  ladder validate routine.txt --watch
  ladder edit replace "XIC(A)OTE(B);" --text OTE(B) --with OTN(B)
  ladder shell`,
	Version: "0.3.0",
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dialectsCmd)
}

// dialectsCmd lists the registered vendor dialects.
var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List supported vendor dialects",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range dialect.Names() {
			cmd.Println(name)
		}
	},
}
