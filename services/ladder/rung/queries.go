// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rung

import (
	"github.com/controlrox/ladder/services/ladder/rungtext"
)

// Structural queries. Each query retokenizes the current text rather
// than consulting the compiled cache, so results are correct for a
// dirty rung and queries never trigger a compile.

// Tokens returns the rung's current token stream.
func (r *Rung) Tokens() []rungtext.Token {
	return rungtext.Tokenize(r.text)
}

// FindMatchingBranchEnd returns the token position of the ']' that
// closes the '[' at pos.
func (r *Rung) FindMatchingBranchEnd(pos int) (int, error) {
	tokens := rungtext.Tokenize(r.text)
	return findMatchingBranchEnd(tokens, pos, r.number)
}

func findMatchingBranchEnd(tokens []rungtext.Token, pos, rungNumber int) (int, error) {
	if pos < 0 || pos >= len(tokens) {
		return 0, newStructureError(rungNumber, pos, ErrPositionOutOfRange,
			"token position outside stream of %d tokens", len(tokens))
	}
	if tokens[pos].Kind != rungtext.KindBranchStart {
		return 0, newStructureError(rungNumber, pos, ErrNotBranchStart,
			"expected '[' but found %q", tokens[pos].Text)
	}
	depth := 1
	for i := pos + 1; i < len(tokens); i++ {
		switch tokens[i].Kind {
		case rungtext.KindBranchStart:
			depth++
		case rungtext.KindBranchEnd:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, newStructureError(rungNumber, pos, ErrNoMatchingEnd,
		"branch start is never closed")
}

// BranchNestingLevel returns the net bracket depth at the token at
// pos, counting the token itself. An instruction on the main rail is
// at level zero; the '[' that opens a top-level branch is at level
// one.
func (r *Rung) BranchNestingLevel(pos int) (int, error) {
	tokens := rungtext.Tokenize(r.text)
	if pos < 0 || pos >= len(tokens) {
		return 0, newStructureError(r.number, pos, ErrPositionOutOfRange,
			"token position outside stream of %d tokens", len(tokens))
	}
	depth := 0
	for i := 0; i <= pos; i++ {
		switch tokens[i].Kind {
		case rungtext.KindBranchStart:
			depth++
		case rungtext.KindBranchEnd:
			depth--
		}
	}
	return depth, nil
}

// BranchInternalNestingLevel returns the number of sibling separators
// directly inside the branch opened at pos. Separators belonging to
// nested branches are not counted. A result of zero means the branch
// is degenerate and will be removed on the next compile.
func (r *Rung) BranchInternalNestingLevel(pos int) (int, error) {
	tokens := rungtext.Tokenize(r.text)
	end, err := findMatchingBranchEnd(tokens, pos, r.number)
	if err != nil {
		return 0, err
	}
	depth := 0
	separators := 0
	for i := pos + 1; i < end; i++ {
		switch tokens[i].Kind {
		case rungtext.KindBranchStart:
			depth++
		case rungtext.KindBranchEnd:
			depth--
		case rungtext.KindBranchNext:
			if depth == 0 {
				separators++
			}
		}
	}
	return separators, nil
}

// MaxBranchDepth returns the deepest bracket nesting in the rung. A
// rung with no branches has depth zero.
func (r *Rung) MaxBranchDepth() int {
	depth := 0
	maxDepth := 0
	for _, tok := range rungtext.Tokenize(r.text) {
		switch tok.Kind {
		case rungtext.KindBranchStart:
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case rungtext.KindBranchEnd:
			depth--
		}
	}
	return maxDepth
}

// ValidateBranchStructure checks the rung text for structural
// malformations without compiling it. Returns nil for well-formed
// text. Degenerate branches are not reported; compilation heals them.
func (r *Rung) ValidateBranchStructure() error {
	depth := 0
	for pos, tok := range rungtext.Tokenize(r.text) {
		switch tok.Kind {
		case rungtext.KindBranchStart:
			depth++
		case rungtext.KindBranchEnd:
			if depth == 0 {
				return newStructureError(r.number, pos, ErrUnmatchedBranch,
					"branch end without an active branch")
			}
			depth--
		case rungtext.KindBranchNext:
			if depth == 0 {
				return newStructureError(r.number, pos, ErrNoActiveBranch,
					"branch separator outside any branch")
			}
		}
	}
	if depth > 0 {
		return newStructureError(r.number, -1, ErrNoMatchingEnd,
			"%d branch start token(s) never closed", depth)
	}
	return nil
}
