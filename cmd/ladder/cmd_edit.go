// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/controlrox/ladder/services/ladder/rung"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	editStart      int      // Start of token span
	editEnd        int      // End of token span, exclusive
	editPos        int      // Position of a '[' token
	editLeg        []string // Instruction calls for a new leg
	editText       string   // Target instruction by text
	editIndex      int      // Target instruction by token position
	editOccurrence int      // Which text match to target
	editTo         int      // Move destination
	editWith       string   // Replacement instruction call
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

// editCmd groups the structural edit operations. Every subcommand
// takes rung text as its argument and prints the rewritten text, so
// edits compose in shell pipelines.
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Structural edits on rung text",
	Long: `Applies one structural edit to rung text and prints the result.

Examples:
  ladder edit wrap "XIC(A)OTE(B);" --start 1 --end 2
  ladder edit insert-branch "XIC(A)OTE(B);" --start 1 --end 2 --leg "OTE(C)"
  ladder edit insert-level "XIC(A)[OTE(B),OTE(C)];" --pos 1 --leg "OTE(D)"
  ladder edit remove-branch "XIC(A)[OTE(B),OTE(C)];" --pos 1
  ladder edit move "XIC(A)OTE(B)OTE(C);" --text "OTE(C)" --to 0
  ladder edit replace "XIC(A)OTE(B);" --text "OTE(B)" --with "OTN(B)"`,
}

var editWrapCmd = &cobra.Command{
	Use:   "wrap TEXT",
	Short: "Wrap a token span in a new branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newEditRung(args[0])
		if _, err := r.WrapInstructionsInBranch(context.Background(), editStart, editEnd); err != nil {
			return err
		}
		cmd.Println(r.Text())
		return nil
	},
}

var editInsertBranchCmd = &cobra.Command{
	Use:   "insert-branch TEXT",
	Short: "Wrap a token span in a branch with a new leg",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newEditRung(args[0])
		id, err := r.InsertBranch(context.Background(), editStart, editEnd, editLeg)
		if err != nil {
			return err
		}
		cmd.Println(r.Text())
		cmd.PrintErrf("branch: %s\n", id)
		return nil
	},
}

var editInsertLevelCmd = &cobra.Command{
	Use:   "insert-level TEXT",
	Short: "Add a sibling leg to an existing branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newEditRung(args[0])
		id, err := r.InsertBranchLevel(context.Background(), editPos, editLeg)
		if err != nil {
			return err
		}
		cmd.Println(r.Text())
		cmd.PrintErrf("leg: %s\n", id)
		return nil
	},
}

var editRemoveBranchCmd = &cobra.Command{
	Use:   "remove-branch TEXT",
	Short: "Delete a branch and everything inside it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := newEditRung(args[0])
		if err := r.RemoveBranch(editPos); err != nil {
			return err
		}
		cmd.Println(r.Text())
		return nil
	},
}

var editRemoveCmd = &cobra.Command{
	Use:   "remove TEXT",
	Short: "Delete one instruction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := editTarget()
		if err != nil {
			return err
		}
		r := newEditRung(args[0])
		if err := r.RemoveInstruction(target); err != nil {
			return err
		}
		cmd.Println(r.Text())
		return nil
	},
}

var editMoveCmd = &cobra.Command{
	Use:   "move TEXT",
	Short: "Move an instruction to another token position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := editTarget()
		if err != nil {
			return err
		}
		r := newEditRung(args[0])
		if err := r.MoveInstruction(target, editTo); err != nil {
			return err
		}
		cmd.Println(r.Text())
		return nil
	},
}

var editReplaceCmd = &cobra.Command{
	Use:   "replace TEXT",
	Short: "Replace an instruction with another call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := editTarget()
		if err != nil {
			return err
		}
		r := newEditRung(args[0])
		if err := r.ReplaceInstruction(target, editWith); err != nil {
			return err
		}
		cmd.Println(r.Text())
		return nil
	},
}

// =============================================================================
// COMMAND INITIALIZATION
// =============================================================================

func init() {
	for _, cmd := range []*cobra.Command{editWrapCmd, editInsertBranchCmd} {
		cmd.Flags().IntVar(&editStart, "start", 0, "First token of the span")
		cmd.Flags().IntVar(&editEnd, "end", 0, "One past the last token of the span")
	}
	editInsertBranchCmd.Flags().StringArrayVar(&editLeg, "leg", nil,
		"Instruction call for the new leg (repeatable)")

	editInsertLevelCmd.Flags().IntVar(&editPos, "pos", 0, "Token position of the '[' or ','")
	editInsertLevelCmd.Flags().StringArrayVar(&editLeg, "leg", nil,
		"Instruction call for the new leg (repeatable)")
	editRemoveBranchCmd.Flags().IntVar(&editPos, "pos", 0, "Token position of the '['")

	for _, cmd := range []*cobra.Command{editRemoveCmd, editMoveCmd, editReplaceCmd} {
		cmd.Flags().StringVar(&editText, "text", "", "Target instruction by call text")
		cmd.Flags().IntVar(&editIndex, "index", -1, "Target instruction by token position")
		cmd.Flags().IntVar(&editOccurrence, "occurrence", 1,
			"Which text match to target, one-based")
	}
	editMoveCmd.Flags().IntVar(&editTo, "to", 0, "Destination token position")
	editReplaceCmd.Flags().StringVar(&editWith, "with", "", "Replacement instruction call")

	editCmd.AddCommand(editWrapCmd)
	editCmd.AddCommand(editInsertBranchCmd)
	editCmd.AddCommand(editInsertLevelCmd)
	editCmd.AddCommand(editRemoveBranchCmd)
	editCmd.AddCommand(editRemoveCmd)
	editCmd.AddCommand(editMoveCmd)
	editCmd.AddCommand(editReplaceCmd)
}

// =============================================================================
// HELPERS
// =============================================================================

func newEditRung(text string) *rung.Rung {
	return rung.New(rung.Config{Number: 0, Text: text, Logger: logger})
}

// editTarget builds the instruction target from the shared flags.
func editTarget() (rung.Target, error) {
	switch {
	case editText != "":
		return rung.ByText(editText).Occurrence(editOccurrence), nil
	case editIndex >= 0:
		return rung.ByIndex(editIndex), nil
	default:
		return rung.Target{}, errors.New("one of --text or --index is required")
	}
}
