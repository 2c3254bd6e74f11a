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

// sequenceBuilder walks a token stream once and accumulates the
// element sequence and branch topology. It is a stack automaton: '['
// pushes a branch, ',' starts a sibling leg on the top branch, ']'
// pops.
//
// One builder serves one pass. When a degenerate branch is found the
// pass aborts and the caller rewrites the stream and runs a fresh
// builder.
type sequenceBuilder struct {
	rung *Rung

	sequence []*Element
	branches map[string]*Branch
	rootID   string

	stack []*branchFrame

	// Current branch context, applied to each emitted element.
	branchID     string
	rootBranchID string
	branchLevel  int

	// Saved context of enclosing branches, pushed on '[' and restored
	// on ']'.
	levelHistory []int
	rootHistory  []string

	// pool holds the not-yet-consumed instruction objects. Each token
	// consumes exactly one entry, so an object never correlates twice.
	pool      []Instruction
	correlate bool
}

// branchFrame is one open branch on the stack.
type branchFrame struct {
	branch *Branch

	// legs counts sibling legs opened by ',' inside this branch. A
	// branch closed with zero legs is degenerate.
	legs int

	// lastLeg is the most recently opened sibling leg, still awaiting
	// its end position.
	lastLeg *Branch
}

// degenerateBranch identifies a '[' ']' pair enclosing a single leg.
type degenerateBranch struct {
	start int
	end   int
}

func newSequenceBuilder(r *Rung) *sequenceBuilder {
	railID := r.RailID()
	b := &sequenceBuilder{
		rung:         r,
		branches:     make(map[string]*Branch),
		rootID:       railID,
		branchID:     railID,
		rootBranchID: railID,
	}
	if r.instructions != nil {
		b.pool = append([]Instruction(nil), r.instructions...)
		b.correlate = true
	}
	return b
}

// run processes the full token stream. Returns a non-nil
// degenerateBranch when a branch closed with no sibling legs; the
// sequence built so far is then meaningless and must be discarded.
func (b *sequenceBuilder) run(tokens []rungtext.Token) (*degenerateBranch, error) {
	for pos, tok := range tokens {
		switch tok.Kind {
		case rungtext.KindBranchStart:
			b.processBranchStart(tok, pos)
		case rungtext.KindBranchNext:
			if err := b.processBranchNext(tok, pos); err != nil {
				return nil, err
			}
		case rungtext.KindBranchEnd:
			degenerate, err := b.processBranchEnd(tok, pos)
			if err != nil {
				return nil, err
			}
			if degenerate != nil {
				return degenerate, nil
			}
		default:
			if err := b.processInstruction(tok, pos); err != nil {
				return nil, err
			}
		}
	}

	if len(b.stack) > 0 {
		open := b.stack[len(b.stack)-1].branch
		return nil, newStructureError(b.rung.number, open.Start, ErrUnmatchedBranch,
			"branch start has no matching end")
	}
	return nil, nil
}

// processBranchStart opens a new branch. The '[' element is annotated
// with the new branch id but keeps the enclosing context as its root,
// so topology walks can step outward from any structural symbol.
func (b *sequenceBuilder) processBranchStart(tok rungtext.Token, pos int) {
	id := b.rung.nextBranchID()
	br := &Branch{
		ID:     id,
		RootID: b.branchID,
		Start:  pos,
		End:    -1,
	}
	b.branches[id] = br

	b.emit(&Element{
		Token:        tok,
		Position:     pos,
		BranchID:     id,
		RootBranchID: b.branchID,
		BranchLevel:  b.branchLevel,
	})

	b.stack = append(b.stack, &branchFrame{branch: br})
	b.levelHistory = append(b.levelHistory, b.branchLevel)
	b.rootHistory = append(b.rootHistory, b.rootBranchID)
	b.branchID = id
	b.rootBranchID = id
	b.branchLevel = 0
}

// processBranchNext starts a sibling leg on the innermost open branch.
func (b *sequenceBuilder) processBranchNext(tok rungtext.Token, pos int) error {
	if len(b.stack) == 0 {
		return newStructureError(b.rung.number, pos, ErrNoActiveBranch,
			"branch separator outside any branch")
	}
	frame := b.stack[len(b.stack)-1]
	parent := frame.branch

	b.branchLevel++
	legID := fmt.Sprintf("%s:%d", parent.ID, b.branchLevel)

	if frame.lastLeg != nil {
		frame.lastLeg.End = pos - 1
	}
	leg := &Branch{
		ID:     legID,
		RootID: parent.ID,
		Start:  pos,
		End:    -1,
	}
	b.branches[legID] = leg
	parent.addNested(leg)
	frame.legs++
	frame.lastLeg = leg

	b.emit(&Element{
		Token:        tok,
		Position:     pos,
		BranchID:     legID,
		RootBranchID: parent.ID,
		BranchLevel:  b.branchLevel,
	})

	b.branchID = legID
	b.rootBranchID = parent.ID
	return nil
}

// processBranchEnd closes the innermost open branch and restores the
// enclosing context. A branch that saw no sibling legs is reported as
// degenerate instead of being closed.
func (b *sequenceBuilder) processBranchEnd(tok rungtext.Token, pos int) (*degenerateBranch, error) {
	if len(b.stack) == 0 {
		return nil, newStructureError(b.rung.number, pos, ErrUnmatchedBranch,
			"branch end without an active branch")
	}
	frame := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	br := frame.branch

	if frame.legs == 0 {
		return &degenerateBranch{start: br.Start, end: pos}, nil
	}

	if frame.lastLeg != nil {
		frame.lastLeg.End = pos - 1
	}
	br.End = pos

	restoredLevel := b.levelHistory[len(b.levelHistory)-1]
	b.levelHistory = b.levelHistory[:len(b.levelHistory)-1]
	restoredRoot := b.rootHistory[len(b.rootHistory)-1]
	b.rootHistory = b.rootHistory[:len(b.rootHistory)-1]

	b.emit(&Element{
		Token:        tok,
		Position:     pos,
		BranchID:     br.ID,
		RootBranchID: restoredRoot,
		BranchLevel:  restoredLevel,
	})

	// Elements after the ']' belong to whatever rail the branch hung
	// off, which inside a sibling leg is the leg itself, not the
	// parent bracket recorded in the root history.
	b.branchID = br.RootID
	b.rootBranchID = restoredRoot
	b.branchLevel = restoredLevel
	return nil, nil
}

// processInstruction emits an instruction element, correlating it with
// the pre-compiled instruction objects when present. Correlation
// prefers a unique exact text match among the not-yet-consumed
// instructions and falls back to positional order, which keeps
// repeated identical calls stable. The matched object is removed from
// the pool either way.
func (b *sequenceBuilder) processInstruction(tok rungtext.Token, pos int) error {
	var inst Instruction
	if b.correlate {
		if len(b.pool) == 0 {
			return newResolutionError(b.rung.number, tok.Text, ErrInstructionNotFound,
				"token %d has no instruction object", pos)
		}
		match := -1
		matches := 0
		for i, candidate := range b.pool {
			if candidate.Text() == tok.Text {
				matches++
				if match < 0 {
					match = i
				}
			}
		}
		idx := 0
		if matches == 1 {
			idx = match
		}
		inst = b.pool[idx]
		b.pool = append(b.pool[:idx], b.pool[idx+1:]...)
	}

	b.emit(&Element{
		Token:        tok,
		Instruction:  inst,
		Position:     pos,
		BranchID:     b.branchID,
		RootBranchID: b.rootBranchID,
		BranchLevel:  b.branchLevel,
	})
	return nil
}

func (b *sequenceBuilder) emit(e *Element) {
	e.Rung = b.rung.number
	b.sequence = append(b.sequence, e)
}
