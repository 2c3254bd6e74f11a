// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rung

import (
	"context"
	"strings"

	"github.com/controlrox/ladder/services/ladder/rungtext"
)

// Structural edits. Every edit validates its inputs first, rewrites
// the token stream, and funnels the result through SetText, so a
// failed edit leaves the rung text untouched and a successful one
// marks the rung dirty for the next compile.

// InsertBranch wraps the token span [start, end) in a new branch. The
// wrapped tokens become the branch's first leg and legTexts, each a
// complete instruction call, become the second. An empty legTexts
// yields an empty second leg, which is still a valid branch.
//
// Returns the id of the new branch from the recompiled topology.
func (r *Rung) InsertBranch(ctx context.Context, start, end int, legTexts []string) (string, error) {
	tokens := rungtext.Tokenize(r.text)
	if start < 0 || end > len(tokens) || start >= end {
		return "", newStructureError(r.number, start, ErrPositionOutOfRange,
			"branch span [%d, %d) invalid for stream of %d tokens", start, end, len(tokens))
	}
	leg, err := r.instructionTokens(legTexts)
	if err != nil {
		return "", err
	}

	out := make([]rungtext.Token, 0, len(tokens)+len(leg)+3)
	out = append(out, tokens[:start]...)
	out = append(out, rungtext.BranchStart)
	out = append(out, tokens[start:end]...)
	out = append(out, rungtext.BranchNext)
	out = append(out, leg...)
	out = append(out, rungtext.BranchEnd)
	out = append(out, tokens[end:]...)
	r.spliceInstructions(tokens, end, legTexts)
	r.SetText(serialize(out))

	return r.branchIDAt(ctx, start)
}

// WrapInstructionsInBranch wraps the token span [start, end) in a
// branch with an empty second leg.
func (r *Rung) WrapInstructionsInBranch(ctx context.Context, start, end int) (string, error) {
	return r.InsertBranch(ctx, start, end, nil)
}

// InsertBranchLevel adds a sibling leg holding legTexts to the branch
// containing pos, which must point at a '[' or ','. The leg lands
// immediately after the leg pos belongs to, before the next sibling
// separator or the branch's own ']'. Returns the new leg's id.
func (r *Rung) InsertBranchLevel(ctx context.Context, pos int, legTexts []string) (string, error) {
	tokens := rungtext.Tokenize(r.text)
	insertAt, err := legInsertionPoint(tokens, pos, r.number)
	if err != nil {
		return "", err
	}
	leg, err := r.instructionTokens(legTexts)
	if err != nil {
		return "", err
	}

	out := make([]rungtext.Token, 0, len(tokens)+len(leg)+1)
	out = append(out, tokens[:insertAt]...)
	out = append(out, rungtext.BranchNext)
	out = append(out, leg...)
	out = append(out, tokens[insertAt:]...)
	r.spliceInstructions(tokens, insertAt, legTexts)
	r.SetText(serialize(out))

	// The new separator took the insertion position.
	seq, err := r.Sequence(ctx)
	if err != nil {
		return "", err
	}
	for _, e := range seq {
		if e.Position == insertAt && e.Token.Kind == rungtext.KindBranchNext {
			return e.BranchID, nil
		}
	}
	return "", newStructureError(r.number, insertAt, ErrBranchNotFound,
		"inserted leg missing from recompiled sequence")
}

// legInsertionPoint finds where a new sibling separator goes: the next
// ',' at the same sibling level, or the enclosing branch's ']'.
func legInsertionPoint(tokens []rungtext.Token, pos, rungNumber int) (int, error) {
	if pos < 0 || pos >= len(tokens) {
		return 0, newStructureError(rungNumber, pos, ErrPositionOutOfRange,
			"token position outside stream of %d tokens", len(tokens))
	}

	depth := 0
	switch tokens[pos].Kind {
	case rungtext.KindBranchStart:
		depth = 1
	case rungtext.KindBranchNext:
	default:
		return 0, newStructureError(rungNumber, pos, ErrNotBranchStart,
			"expected '[' or ',' but found %q", tokens[pos].Text)
	}
	base := depth

	for i := pos + 1; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case rungtext.KindBranchStart:
			depth++
		case rungtext.KindBranchNext:
			if depth == base {
				return i, nil
			}
		case rungtext.KindBranchEnd:
			if depth == base {
				return i, nil
			}
			depth--
		}
	}
	return 0, newStructureError(rungNumber, pos, ErrNoMatchingEnd,
		"branch is never closed")
}

// RemoveBranch deletes the branch whose '[' sits at pos, including
// every leg and nested branch inside it.
func (r *Rung) RemoveBranch(pos int) error {
	tokens := rungtext.Tokenize(r.text)
	end, err := findMatchingBranchEnd(tokens, pos, r.number)
	if err != nil {
		return err
	}
	out := make([]rungtext.Token, 0, len(tokens)-(end-pos+1))
	out = append(out, tokens[:pos]...)
	out = append(out, tokens[end+1:]...)
	r.SetText(serialize(out))
	return nil
}

// RemoveBranchByID deletes the branch with the given id from the
// compiled topology. Sibling legs cannot be removed this way; delete
// their instructions and separator instead.
func (r *Rung) RemoveBranchByID(ctx context.Context, id string) error {
	br, err := r.Branch(ctx, id)
	if err != nil {
		return err
	}
	if strings.Contains(id, ":") {
		return newResolutionError(r.number, id, ErrBranchNotFound,
			"id names a sibling leg, not a bracket branch")
	}
	return r.RemoveBranch(br.Start)
}

// RemoveInstruction deletes the instruction token the target selects.
func (r *Rung) RemoveInstruction(target Target) error {
	tokens := rungtext.Tokenize(r.text)
	pos, err := target.resolve(tokens, r.number)
	if err != nil {
		return err
	}
	out := make([]rungtext.Token, 0, len(tokens)-1)
	out = append(out, tokens[:pos]...)
	out = append(out, tokens[pos+1:]...)
	r.SetText(serialize(out))
	return nil
}

// MoveInstruction removes the targeted instruction token and
// reinserts it so that it lands at token position to in the rewritten
// stream.
func (r *Rung) MoveInstruction(target Target, to int) error {
	tokens := rungtext.Tokenize(r.text)
	pos, err := target.resolve(tokens, r.number)
	if err != nil {
		return err
	}
	if to < 0 || to >= len(tokens) {
		return newStructureError(r.number, to, ErrPositionOutOfRange,
			"destination outside stream of %d tokens", len(tokens))
	}
	if to == pos {
		return nil
	}

	moved := tokens[pos]
	rest := make([]rungtext.Token, 0, len(tokens)-1)
	rest = append(rest, tokens[:pos]...)
	rest = append(rest, tokens[pos+1:]...)

	out := make([]rungtext.Token, 0, len(tokens))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	r.SetText(serialize(out))
	return nil
}

// ReplaceInstruction swaps the targeted instruction token's text for
// text, which must be exactly one complete instruction call.
func (r *Rung) ReplaceInstruction(target Target, text string) error {
	if !rungtext.IsInstructionCall(text) {
		return newStructureError(r.number, -1, ErrInvalidInstructionText,
			"replacement %q is not a single instruction call", text)
	}
	tokens := rungtext.Tokenize(r.text)
	pos, err := target.resolve(tokens, r.number)
	if err != nil {
		return err
	}
	out := make([]rungtext.Token, len(tokens))
	copy(out, tokens)
	out[pos] = rungtext.Instruction(text)
	r.SetText(serialize(out))
	return nil
}

// literalInstruction backs instruction calls added by edits to a rung
// that carries a borrowed instruction list.
type literalInstruction string

func (l literalInstruction) Text() string { return string(l) }

// spliceInstructions keeps a borrowed instruction list aligned with the
// token stream after an edit adds instruction calls. The new objects
// land at the ordinal position their tokens take, counted against the
// pre-edit stream truncated at before, so the next compile can
// correlate them.
func (r *Rung) spliceInstructions(tokens []rungtext.Token, before int, legTexts []string) {
	if r.instructions == nil || len(legTexts) == 0 {
		return
	}
	at := 0
	for _, tok := range tokens[:before] {
		if tok.Kind == rungtext.KindInstruction {
			at++
		}
	}
	if at > len(r.instructions) {
		at = len(r.instructions)
	}

	out := make([]Instruction, 0, len(r.instructions)+len(legTexts))
	out = append(out, r.instructions[:at]...)
	for _, text := range legTexts {
		out = append(out, literalInstruction(text))
	}
	out = append(out, r.instructions[at:]...)
	r.instructions = out
}

// instructionTokens validates legTexts and converts them to tokens.
func (r *Rung) instructionTokens(legTexts []string) ([]rungtext.Token, error) {
	leg := make([]rungtext.Token, 0, len(legTexts))
	for _, text := range legTexts {
		if !rungtext.IsInstructionCall(text) {
			return nil, newStructureError(r.number, -1, ErrInvalidInstructionText,
				"leg entry %q is not a single instruction call", text)
		}
		leg = append(leg, rungtext.Instruction(text))
	}
	return leg, nil
}

// branchIDAt recompiles and returns the id of the branch whose '['
// sits at the given token position.
func (r *Rung) branchIDAt(ctx context.Context, pos int) (string, error) {
	branches, err := r.Branches(ctx)
	if err != nil {
		return "", err
	}
	for id, br := range branches {
		// Sibling legs share the map; only bracket branches qualify.
		if br.Start == pos && !strings.Contains(id, ":") {
			return id, nil
		}
	}
	return "", newStructureError(r.number, pos, ErrBranchNotFound,
		"no branch starts at token %d after recompile", pos)
}
