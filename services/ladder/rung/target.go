// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rung

import (
	"fmt"

	"github.com/controlrox/ladder/services/ladder/rungtext"
)

// Target selects one instruction token for an edit operation. Exactly
// one selector is set per target; construct targets with ByIndex,
// ByText or ByInstruction.
//
// Text and instruction targets match the first occurrence unless
// Occurrence chooses a later one, so ambiguous references are
// explicit at the call site instead of resolved by guesswork.
type Target struct {
	kind       targetKind
	index      int
	text       string
	occurrence int
}

type targetKind int

const (
	targetIndex targetKind = iota
	targetText
	targetInstruction
)

// ByIndex targets the instruction token at the given token position.
func ByIndex(index int) Target {
	return Target{kind: targetIndex, index: index}
}

// ByText targets the first instruction token whose text equals text.
func ByText(text string) Target {
	return Target{kind: targetText, text: text, occurrence: 1}
}

// ByInstruction targets the first instruction token matching the
// compiled instruction's text.
func ByInstruction(inst Instruction) Target {
	return Target{kind: targetInstruction, text: inst.Text(), occurrence: 1}
}

// Occurrence returns a copy of the target selecting the nth match,
// one-based. Has no effect on index targets.
func (t Target) Occurrence(n int) Target {
	t.occurrence = n
	return t
}

// String renders the target for error messages.
func (t Target) String() string {
	switch t.kind {
	case targetIndex:
		return fmt.Sprintf("token %d", t.index)
	default:
		if t.occurrence > 1 {
			return fmt.Sprintf("%s#%d", t.text, t.occurrence)
		}
		return t.text
	}
}

// resolve returns the token position the target selects.
func (t Target) resolve(tokens []rungtext.Token, rungNumber int) (int, error) {
	switch t.kind {
	case targetIndex:
		if t.index < 0 || t.index >= len(tokens) {
			return 0, newStructureError(rungNumber, t.index, ErrPositionOutOfRange,
				"token position outside stream of %d tokens", len(tokens))
		}
		if tokens[t.index].IsSymbol() {
			return 0, newResolutionError(rungNumber, t.String(), ErrInstructionNotFound,
				"token is a structural symbol, not an instruction")
		}
		return t.index, nil

	default:
		want := t.occurrence
		if want < 1 {
			want = 1
		}
		seen := 0
		for pos, tok := range tokens {
			if tok.Kind == rungtext.KindInstruction && tok.Text == t.text {
				seen++
				if seen == want {
					return pos, nil
				}
			}
		}
		return 0, newResolutionError(rungNumber, t.String(), ErrInstructionNotFound,
			"no matching instruction token (found %d occurrence(s))", seen)
	}
}
