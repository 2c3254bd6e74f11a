// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/controlrox/ladder/services/ladder/rung"
	"github.com/controlrox/ladder/services/ladder/rungtext"
)

var (
	railStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	legStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	instStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// treeCmd renders the branch topology of a rung.
//
// # Examples
//
//	ladder tree "XIC(A)[OTE(B),[OTE(C),OTE(D)]];"
var treeCmd = &cobra.Command{
	Use:   "tree TEXT",
	Short: "Render the branch topology of rung text",
	Args:  cobra.ExactArgs(1),
	RunE:  runTreeCommand,
}

func runTreeCommand(cmd *cobra.Command, args []string) error {
	r := rung.New(rung.Config{Number: 0, Text: args[0], Logger: logger})
	ctx := context.Background()

	branches, err := r.Branches(ctx)
	if err != nil {
		return err
	}
	seq, err := r.Sequence(ctx)
	if err != nil {
		return err
	}

	cmd.Println(railStyle.Render(r.RailID()) + "  " + instStyle.Render(r.Text()))
	for _, br := range childrenOf(branches, r.RailID()) {
		printBranch(cmd, br, branches, seq, 1)
	}
	return nil
}

// childrenOf returns the branches rooted on the given rail or leg,
// ordered by start position. Covers both sibling legs and bracket
// branches opened inside the parent.
func childrenOf(branches map[string]*rung.Branch, rootID string) []*rung.Branch {
	var children []*rung.Branch
	for _, br := range branches {
		if br.RootID == rootID {
			children = append(children, br)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Start < children[j].Start })
	return children
}

// printBranch renders one branch and recurses into everything rooted
// on it.
func printBranch(cmd *cobra.Command, br *rung.Branch, branches map[string]*rung.Branch, seq []*rung.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	style := branchStyle
	if strings.Contains(br.ID, ":") {
		style = legStyle
	}
	span := fmt.Sprintf("[%d..%d]", br.Start, br.End)
	cmd.Println(indent + style.Render(br.ID) + "  " + span + "  " +
		instStyle.Render(branchInstructions(br, seq)))
	for _, child := range childrenOf(branches, br.ID) {
		printBranch(cmd, child, branches, seq, depth+1)
	}
}

// branchInstructions joins the instruction texts directly on a branch.
func branchInstructions(br *rung.Branch, seq []*rung.Element) string {
	var texts []string
	for _, e := range seq {
		if e.BranchID == br.ID && e.Token.Kind == rungtext.KindInstruction {
			texts = append(texts, e.Token.Text)
		}
	}
	return strings.Join(texts, " ")
}
