// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/controlrox/ladder/services/ladder/plc"
	"github.com/controlrox/ladder/services/ladder/rung"
	"github.com/controlrox/ladder/services/ladder/rungtext"
)

var tokensAnnotate bool // Include branch context per token

// tokensCmd prints the token stream of a rung.
//
// # Examples
//
//	ladder tokens "XIC(A)[OTE(B),OTE(C)];"
//	ladder tokens -a "XIC(A)[OTE(B),OTE(C)];"
var tokensCmd = &cobra.Command{
	Use:   "tokens TEXT",
	Short: "Print the token stream of rung text",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokensCommand,
}

func init() {
	tokensCmd.Flags().BoolVarP(&tokensAnnotate, "annotate", "a", false,
		"Compile the rung and include branch ids and levels")
}

func runTokensCommand(cmd *cobra.Command, args []string) error {
	text := args[0]

	if !tokensAnnotate {
		for pos, tok := range rungtext.Tokenize(text) {
			cmd.Printf("%3d  %-12s %s\n", pos, tok.Kind, tok.Text)
		}
		return nil
	}

	r := rung.New(rung.Config{
		Number:       0,
		Text:         text,
		Instructions: asRungInstructions(plc.InstructionsFromText(text)),
		Logger:       logger,
	})
	seq, err := r.Sequence(context.Background())
	if err != nil {
		return err
	}
	for _, e := range seq {
		cmd.Printf("%3d  %-12s %-24s %s level=%d\n",
			e.Position, e.Token.Kind, e.Token.Text, e.BranchID, e.BranchLevel)
	}
	if r.Text() != text {
		cmd.Printf("normalized: %s\n", r.Text())
	}
	return nil
}

func asRungInstructions(in []*plc.Instruction) []rung.Instruction {
	out := make([]rung.Instruction, 0, len(in))
	for _, i := range in {
		out = append(out, i)
	}
	return out
}
