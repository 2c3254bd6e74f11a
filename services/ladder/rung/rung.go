// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package rung compiles ladder logic rung text into an annotated
// element sequence and a parallel branch topology, and provides
// structural queries and edits over that text.
//
// A rung is compiled lazily: SetText marks the rung dirty and the next
// Compile rebuilds the sequence. Structural queries always work from a
// fresh tokenization of the current text and never consult the cached
// sequence, so they stay correct even while the rung is dirty.
package rung

import (
	"context"
	"fmt"
	"time"

	"github.com/controlrox/ladder/pkg/logging"
	"github.com/controlrox/ladder/services/ladder/rungtext"
)

// Config carries the initial state of a rung.
type Config struct {
	// Number is the rung's position within its routine.
	Number int

	// Text is the rung's ladder text, for example
	// "XIC(A)[OTE(B),OTE(C)];".
	Text string

	// Comment is the optional rung comment.
	Comment string

	// Instructions are the pre-compiled instruction objects to
	// correlate with the token stream. May be nil; elements then carry
	// nil instructions.
	Instructions []Instruction

	// Logger receives normalization warnings. Defaults to a discard
	// logger when nil.
	Logger *logging.Logger
}

// Rung is one rung of a ladder logic routine.
//
// Not safe for concurrent use.
type Rung struct {
	number       int
	text         string
	comment      string
	instructions []Instruction

	sequence []*Element
	branches map[string]*Branch
	rootID   string

	// compiled distinguishes "never built" and "built but empty" from
	// stale. Only SetText and Invalidate clear it.
	compiled bool

	branchCounter int
	logger        *logging.Logger
}

// New constructs a rung from cfg. The rung is dirty until Compile is
// called.
func New(cfg Config) *Rung {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Rung{
		number:       cfg.Number,
		text:         cfg.Text,
		comment:      cfg.Comment,
		instructions: cfg.Instructions,
		logger:       log,
	}
}

// Number returns the rung number.
func (r *Rung) Number() int {
	return r.number
}

// SetNumber renumbers the rung. Branch ids embed the rung number, so
// the compiled sequence is invalidated.
func (r *Rung) SetNumber(n int) {
	if n == r.number {
		return
	}
	r.number = n
	r.Invalidate()
}

// Text returns the current rung text. Normalization may have rewritten
// it since construction.
func (r *Rung) Text() string {
	return r.text
}

// SetText replaces the rung text and marks the rung dirty. This is the
// only way rung text changes; every edit operation funnels through it.
func (r *Rung) SetText(text string) {
	r.text = text
	r.Invalidate()
}

// Comment returns the rung comment.
func (r *Rung) Comment() string {
	return r.comment
}

// SetComment replaces the rung comment. Comments are not part of the
// compiled structure, so the sequence stays valid.
func (r *Rung) SetComment(comment string) {
	r.comment = comment
}

// Instructions returns the pre-compiled instruction objects.
func (r *Rung) Instructions() []Instruction {
	return r.instructions
}

// SetInstructions replaces the instruction objects and marks the rung
// dirty so the next Compile re-correlates them.
func (r *Rung) SetInstructions(instructions []Instruction) {
	r.instructions = instructions
	r.Invalidate()
}

// Invalidate discards the compiled sequence and branch topology.
func (r *Rung) Invalidate() {
	r.sequence = nil
	r.branches = nil
	r.rootID = ""
	r.compiled = false
}

// Compiled reports whether the rung holds a current compiled sequence.
func (r *Rung) Compiled() bool {
	return r.compiled
}

// Sequence compiles the rung if needed and returns the element
// sequence. A rung with no branch tokens yields one element per
// instruction call.
func (r *Rung) Sequence(ctx context.Context) ([]*Element, error) {
	if err := r.Compile(ctx); err != nil {
		return nil, err
	}
	return r.sequence, nil
}

// Branches compiles the rung if needed and returns the branch
// topology keyed by branch id. Sibling legs appear under ids of the
// form "<parent>:<level>".
func (r *Rung) Branches(ctx context.Context) (map[string]*Branch, error) {
	if err := r.Compile(ctx); err != nil {
		return nil, err
	}
	return r.branches, nil
}

// Branch compiles the rung if needed and returns one branch by id.
func (r *Rung) Branch(ctx context.Context, id string) (*Branch, error) {
	if err := r.Compile(ctx); err != nil {
		return nil, err
	}
	br, ok := r.branches[id]
	if !ok {
		return nil, newResolutionError(r.number, id, ErrBranchNotFound, "no such branch")
	}
	return br, nil
}

// HasBranches reports whether the current text contains any branch
// structure. Works from the raw text, not the compiled cache.
func (r *Rung) HasBranches() bool {
	for _, tok := range rungtext.Tokenize(r.text) {
		if tok.Kind == rungtext.KindBranchStart {
			return true
		}
	}
	return false
}

// RailID returns the id of the rung's main rail.
func (r *Rung) RailID() string {
	return fmt.Sprintf("rung_%d", r.number)
}

// nextBranchID allocates the next bracket-branch id.
func (r *Rung) nextBranchID() string {
	id := fmt.Sprintf("rung_%d_branch_%d", r.number, r.branchCounter)
	r.branchCounter++
	return id
}

// Compile builds the element sequence and branch topology from the
// current text. A no-op when the rung is already compiled.
//
// Degenerate branches, bracket pairs enclosing a single leg with no
// ',' separator, are removed from the text and the build restarts.
// The restart loop is capped at the initial token count plus one; each
// pass strictly shrinks the token stream, so reaching the cap means
// the rewrite diverged and compilation fails rather than spinning.
func (r *Rung) Compile(ctx context.Context) error {
	if r.compiled {
		return nil
	}

	ctx, span := startSpan(ctx, "rung.Compile", r.number)
	defer span.End()
	start := time.Now()

	tokens := rungtext.Tokenize(r.text)
	maxPasses := len(tokens) + 1

	var err error
	for pass := 0; pass < maxPasses; pass++ {
		r.branchCounter = 0
		b := newSequenceBuilder(r)

		var degenerate *degenerateBranch
		degenerate, err = b.run(tokens)
		if err != nil {
			recordCompile(ctx, start, 0, err)
			return err
		}
		if degenerate == nil {
			r.sequence = b.sequence
			r.branches = b.branches
			r.rootID = b.rootID
			r.compiled = true
			recordCompile(ctx, start, len(r.sequence), nil)
			return nil
		}

		// Drop the degenerate '[' ']' pair and rebuild from the
		// shortened stream. Text is rewritten so the fix survives
		// re-serialization.
		r.logger.Warn("removing degenerate branch",
			"rung", r.number,
			"start", degenerate.start,
			"end", degenerate.end,
		)
		recordNormalizeRewrite(ctx)
		tokens = removeTokenPair(tokens, degenerate.start, degenerate.end)
		r.text = serialize(tokens)
	}

	err = newStructureError(r.number, -1, ErrNormalizationDiverged,
		"degenerate branch removal exceeded %d passes", maxPasses)
	recordCompile(ctx, start, 0, err)
	return err
}

// removeTokenPair returns tokens with the entries at i and j removed.
// Assumes i < j.
func removeTokenPair(tokens []rungtext.Token, i, j int) []rungtext.Token {
	out := make([]rungtext.Token, 0, len(tokens)-2)
	out = append(out, tokens[:i]...)
	out = append(out, tokens[i+1:j]...)
	out = append(out, tokens[j+1:]...)
	return out
}

// serialize renders a token stream back to rung text with its
// terminator.
func serialize(tokens []rungtext.Token) string {
	return rungtext.Join(tokens) + ";"
}
