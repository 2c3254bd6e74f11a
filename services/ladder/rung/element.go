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

// Instruction is the contract a compiled instruction object must
// satisfy to participate in sequence correlation. The plc package
// provides the concrete implementation.
type Instruction interface {
	// Text returns the full call text of the instruction, for example
	// "XIC(Motor_Start)".
	Text() string
}

// Element is one entry of a compiled rung sequence. Every token of the
// rung text, instruction calls and structural symbols alike, produces
// exactly one element annotated with its branch context.
type Element struct {
	// Token is the token this element was built from.
	Token rungtext.Token

	// Instruction is the compiled instruction correlated with this
	// element. Nil for structural symbol elements.
	Instruction Instruction

	// Position is the zero-based index of the token in the rung's
	// token stream after normalization.
	Position int

	// BranchID identifies the branch leg this element lives on.
	// Elements on the rung's main rail carry the rail id.
	BranchID string

	// RootBranchID identifies the enclosing rail. For '[' and ']'
	// elements this is the rail the branch hangs off, not the branch
	// itself.
	RootBranchID string

	// BranchLevel is the zero-based leg index within the branch.
	BranchLevel int

	// Rung is the number of the rung this element belongs to.
	Rung int
}

// IsSymbol reports whether the element is a structural symbol rather
// than an instruction call.
func (e *Element) IsSymbol() bool {
	return e.Token.IsSymbol()
}

// String renders a compact debug form of the element.
func (e *Element) String() string {
	return fmt.Sprintf("%d:%q@%s/%d", e.Position, e.Token.Text, e.BranchID, e.BranchLevel)
}

// Branch is one parallel branch of a rung, spanning its '[' and ']'
// tokens. Sibling legs added by ',' separators appear as nested
// branches whose ids extend the parent id with ":<level>".
type Branch struct {
	// ID is the branch id, either "rung_<n>_branch_<k>" for a branch
	// opened by '[' or "<parent>:<level>" for a sibling leg.
	ID string

	// RootID identifies the rail or leg this branch hangs off.
	RootID string

	// Start is the token position of the opening '[' for bracket
	// branches, or of the ',' for sibling legs.
	Start int

	// End is the token position of the closing ']', or the position
	// just before the next sibling separator for legs. -1 while the
	// branch is still open.
	End int

	// Nested holds the branch's sibling legs in the order their ','
	// separators appear. Deeper bracket branches are not listed here;
	// they point back through RootID instead.
	Nested []*Branch
}

// addNested appends a child branch.
func (b *Branch) addNested(child *Branch) {
	b.Nested = append(b.Nested, child)
}
