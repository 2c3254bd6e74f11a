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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/controlrox/ladder/services/ladder/rung"
)

const historyFile = ".ladder_history"

// shellCmd starts an interactive session holding one working rung.
//
// # Description
//
// The shell keeps a current rung in memory and applies queries and
// edits to it, so a sequence of edits can be explored without
// re-passing the text on every invocation. Line history persists
// across sessions.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive rung editing session",
	RunE:  runShellCommand,
}

var shellCommands = []string{
	"text", "show", "tokens", "tree", "validate",
	"wrap", "replace", "remove", "move", "help", "quit",
}

func runShellCommand(cmd *cobra.Command, args []string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		var out []string
		for _, c := range shellCommands {
			if strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
		return out
	})

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	cmd.Println("ladder shell, type 'help' for commands")
	var current *rung.Rung

	for {
		input, err := line.Prompt("ladder> ")
		if err != nil {
			// Ctrl-C or Ctrl-D ends the session.
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if input == "quit" || input == "exit" {
			return nil
		}
		if err := shellDispatch(cmd, &current, input); err != nil {
			cmd.PrintErrln(err)
		}
	}
}

// shellDispatch runs one shell command against the current rung.
func shellDispatch(cmd *cobra.Command, current **rung.Rung, input string) error {
	verb, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	if verb == "help" {
		cmd.Println(`  text TEXT              set the working rung
  show                   print the current text
  tokens                 print the token stream
  tree                   render the branch topology
  validate               check branch structure
  wrap START END         wrap a token span in a branch
  replace TARGET TEXT    replace an instruction
  remove TARGET          delete an instruction
  move TARGET POS        move an instruction
  quit                   leave the shell`)
		return nil
	}
	if verb == "text" {
		if rest == "" {
			return fmt.Errorf("usage: text TEXT")
		}
		*current = rung.New(rung.Config{Number: 0, Text: rest, Logger: logger})
		return nil
	}
	if *current == nil {
		return fmt.Errorf("no working rung, set one with: text TEXT")
	}
	r := *current

	switch verb {
	case "show":
		cmd.Println(r.Text())
		return nil

	case "tokens":
		for pos, tok := range r.Tokens() {
			cmd.Printf("%3d  %-12s %s\n", pos, tok.Kind, tok.Text)
		}
		return nil

	case "tree":
		branches, err := r.Branches(context.Background())
		if err != nil {
			return err
		}
		seq, err := r.Sequence(context.Background())
		if err != nil {
			return err
		}
		cmd.Println(railStyle.Render(r.RailID()) + "  " + instStyle.Render(r.Text()))
		for _, br := range childrenOf(branches, r.RailID()) {
			printBranch(cmd, br, branches, seq, 1)
		}
		return nil

	case "validate":
		if err := r.ValidateBranchStructure(); err != nil {
			return err
		}
		cmd.Println("OK")
		return nil

	case "wrap":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return fmt.Errorf("usage: wrap START END")
		}
		start, err := strconv.Atoi(fields[0])
		if err != nil {
			return err
		}
		end, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		id, err := r.WrapInstructionsInBranch(context.Background(), start, end)
		if err != nil {
			return err
		}
		cmd.Printf("%s  (%s)\n", r.Text(), id)
		return nil

	case "replace":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return fmt.Errorf("usage: replace TARGET TEXT")
		}
		if err := r.ReplaceInstruction(shellTarget(fields[0]), fields[1]); err != nil {
			return err
		}
		cmd.Println(r.Text())
		return nil

	case "remove":
		if rest == "" {
			return fmt.Errorf("usage: remove TARGET")
		}
		if err := r.RemoveInstruction(shellTarget(rest)); err != nil {
			return err
		}
		cmd.Println(r.Text())
		return nil

	case "move":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return fmt.Errorf("usage: move TARGET POS")
		}
		to, err := strconv.Atoi(fields[1])
		if err != nil {
			return err
		}
		if err := r.MoveInstruction(shellTarget(fields[0]), to); err != nil {
			return err
		}
		cmd.Println(r.Text())
		return nil

	default:
		return fmt.Errorf("unknown command %q, type 'help'", verb)
	}
}

// shellTarget interprets a target word: a bare number targets by
// token position, anything else by instruction text.
func shellTarget(word string) rung.Target {
	if n, err := strconv.Atoi(word); err == nil {
		return rung.ByIndex(n)
	}
	return rung.ByText(word)
}

// historyPath places history in the home directory, falling back to
// the working directory.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}
