// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rung

import (
	"context"
	"errors"
	"testing"

	"github.com/controlrox/ladder/services/ladder/rungtext"
)

type fakeInstruction struct {
	text string
}

func (f *fakeInstruction) Text() string {
	return f.text
}

func instrs(texts ...string) []Instruction {
	out := make([]Instruction, 0, len(texts))
	for _, t := range texts {
		out = append(out, &fakeInstruction{text: t})
	}
	return out
}

func mustSequence(t *testing.T, r *Rung) []*Element {
	t.Helper()
	seq, err := r.Sequence(context.Background())
	if err != nil {
		t.Fatalf("Sequence() error: %v", err)
	}
	return seq
}

func TestCompileNoBranches(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)XIC(B)OTE(C);"})
	seq := mustSequence(t, r)

	if len(seq) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(seq))
	}
	wantTexts := []string{"XIC(A)", "XIC(B)", "OTE(C)"}
	for i, e := range seq {
		if e.Token.Text != wantTexts[i] {
			t.Errorf("element %d: text = %q, want %q", i, e.Token.Text, wantTexts[i])
		}
		if e.BranchID != "rung_0" {
			t.Errorf("element %d: branch id = %q, want rail id", i, e.BranchID)
		}
		if e.BranchLevel != 0 {
			t.Errorf("element %d: level = %d, want 0", i, e.BranchLevel)
		}
		if e.Position != i {
			t.Errorf("element %d: position = %d", i, e.Position)
		}
	}
}

func TestCompileSingleBranch(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),OTE(C)];"})
	seq := mustSequence(t, r)

	if len(seq) != 6 {
		t.Fatalf("expected 6 elements, got %d", len(seq))
	}

	type want struct {
		text   string
		branch string
		root   string
		level  int
	}
	wants := []want{
		{"XIC(A)", "rung_0", "rung_0", 0},
		{"[", "rung_0_branch_0", "rung_0", 0},
		{"OTE(B)", "rung_0_branch_0", "rung_0_branch_0", 0},
		{",", "rung_0_branch_0:1", "rung_0_branch_0", 1},
		{"OTE(C)", "rung_0_branch_0:1", "rung_0_branch_0", 1},
		{"]", "rung_0_branch_0", "rung_0", 0},
	}
	for i, w := range wants {
		e := seq[i]
		if e.Token.Text != w.text {
			t.Errorf("element %d: text = %q, want %q", i, e.Token.Text, w.text)
		}
		if e.BranchID != w.branch {
			t.Errorf("element %d: branch id = %q, want %q", i, e.BranchID, w.branch)
		}
		if e.RootBranchID != w.root {
			t.Errorf("element %d: root id = %q, want %q", i, e.RootBranchID, w.root)
		}
		if e.BranchLevel != w.level {
			t.Errorf("element %d: level = %d, want %d", i, e.BranchLevel, w.level)
		}
	}
}

func TestCompileBranchTopology(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),OTE(C)];"})
	branches, err := r.Branches(context.Background())
	if err != nil {
		t.Fatalf("Branches() error: %v", err)
	}

	br, ok := branches["rung_0_branch_0"]
	if !ok {
		t.Fatalf("branch rung_0_branch_0 missing, have %d branches", len(branches))
	}
	if br.Start != 1 || br.End != 5 {
		t.Errorf("branch span = [%d, %d], want [1, 5]", br.Start, br.End)
	}
	if br.RootID != "rung_0" {
		t.Errorf("branch root = %q, want rail id", br.RootID)
	}

	leg, ok := branches["rung_0_branch_0:1"]
	if !ok {
		t.Fatal("sibling leg rung_0_branch_0:1 missing")
	}
	if leg.Start != 3 || leg.End != 4 {
		t.Errorf("leg span = [%d, %d], want [3, 4]", leg.Start, leg.End)
	}
	if len(br.Nested) != 1 || br.Nested[0] != leg {
		t.Errorf("branch nested = %v, want the sibling leg", br.Nested)
	}
}

func TestCompileNestedBranches(t *testing.T) {
	r := New(Config{Number: 2, Text: "XIC(A)[OTE(B),[OTE(C),OTE(D)]];"})
	branches, err := r.Branches(context.Background())
	if err != nil {
		t.Fatalf("Branches() error: %v", err)
	}

	outer, ok := branches["rung_2_branch_0"]
	if !ok {
		t.Fatal("outer branch missing")
	}
	inner, ok := branches["rung_2_branch_1"]
	if !ok {
		t.Fatal("inner branch missing")
	}
	if inner.RootID != "rung_2_branch_0:1" {
		t.Errorf("inner root = %q, want the enclosing leg", inner.RootID)
	}
	if outer.End <= inner.End {
		t.Errorf("outer ends at %d, inner at %d, outer must close last", outer.End, inner.End)
	}
}

func TestCompileInstructionAfterNestedBranchEnd(t *testing.T) {
	// OTE(E) trails the inner branch but still sits inside the outer
	// branch's second leg, so it must carry the leg's id.
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),[OTE(C),OTE(D)]OTE(E)];"})
	seq := mustSequence(t, r)

	var trailing *Element
	for _, e := range seq {
		if e.Token.Text == "OTE(E)" {
			trailing = e
		}
	}
	if trailing == nil {
		t.Fatal("OTE(E) element missing from sequence")
	}
	if trailing.BranchID != "rung_0_branch_0:1" {
		t.Errorf("branch id = %q, want the enclosing leg rung_0_branch_0:1", trailing.BranchID)
	}
	if trailing.RootBranchID != "rung_0_branch_0" {
		t.Errorf("root branch id = %q, want rung_0_branch_0", trailing.RootBranchID)
	}
	if trailing.BranchLevel != 1 {
		t.Errorf("level = %d, want 1", trailing.BranchLevel)
	}
}

func TestCompileRemovesDegenerateBranch(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B)];"})
	seq := mustSequence(t, r)

	if len(seq) != 2 {
		t.Fatalf("expected 2 elements after healing, got %d", len(seq))
	}
	if r.Text() != "XIC(A)OTE(B);" {
		t.Errorf("healed text = %q, want %q", r.Text(), "XIC(A)OTE(B);")
	}
	if r.HasBranches() {
		t.Error("healed rung still reports branches")
	}
}

func TestCompileRemovesNestedDegenerateBranch(t *testing.T) {
	// The outer bracket pair has no sibling separator of its own, so
	// it is degenerate even though it encloses a valid branch.
	r := New(Config{Number: 0, Text: "XIC(A)[[OTE(B),OTE(C)]];"})
	if err := r.Compile(context.Background()); err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if r.Text() != "XIC(A)[OTE(B),OTE(C)];" {
		t.Errorf("healed text = %q, want %q", r.Text(), "XIC(A)[OTE(B),OTE(C)];")
	}
	if _, ok := r.branches["rung_0_branch_0"]; !ok {
		t.Error("surviving branch not registered under the first counter slot")
	}
}

func TestCompileStructureErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"unmatched start", "XIC(A)[OTE(B),OTE(C);", ErrUnmatchedBranch},
		{"unmatched end", "XIC(A)OTE(B)];", ErrUnmatchedBranch},
		{"separator outside branch", "XIC(A),OTE(B);", ErrNoActiveBranch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Config{Number: 0, Text: tt.text})
			err := r.Compile(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want wrapped %v", err, tt.want)
			}
			if !IsStructureError(err) {
				t.Errorf("error %v is not a StructureError", err)
			}
		})
	}
}

func TestCompileEmptyText(t *testing.T) {
	r := New(Config{Number: 0, Text: ";"})
	seq := mustSequence(t, r)
	if len(seq) != 0 {
		t.Errorf("expected empty sequence, got %d elements", len(seq))
	}
	if !r.Compiled() {
		t.Error("empty rung must still be marked compiled")
	}
}

func TestCompileIsIdempotent(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),OTE(C)];"})
	first := mustSequence(t, r)
	second := mustSequence(t, r)
	if len(first) != len(second) {
		t.Fatalf("recompile changed length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("element %d rebuilt without invalidation", i)
		}
	}
}

func TestSetTextInvalidates(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A);"})
	mustSequence(t, r)
	if !r.Compiled() {
		t.Fatal("rung not compiled")
	}

	r.SetText("XIC(A)OTE(B);")
	if r.Compiled() {
		t.Fatal("SetText did not mark the rung dirty")
	}
	seq := mustSequence(t, r)
	if len(seq) != 2 {
		t.Errorf("recompiled sequence has %d elements, want 2", len(seq))
	}
}

func TestSetNumberChangesBranchIDs(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),OTE(C)];"})
	mustSequence(t, r)

	r.SetNumber(7)
	branches, err := r.Branches(context.Background())
	if err != nil {
		t.Fatalf("Branches() error: %v", err)
	}
	if _, ok := branches["rung_7_branch_0"]; !ok {
		t.Errorf("branch ids not renumbered, have %v", branchIDs(branches))
	}
}

func branchIDs(branches map[string]*Branch) []string {
	ids := make([]string, 0, len(branches))
	for id := range branches {
		ids = append(ids, id)
	}
	return ids
}

func TestInstructionCorrelationPositional(t *testing.T) {
	// Two identical calls must map to distinct objects in order.
	objs := instrs("XIC(A)", "XIC(A)")
	r := New(Config{Number: 0, Text: "XIC(A)XIC(A);", Instructions: objs})
	seq := mustSequence(t, r)

	if seq[0].Instruction != objs[0] {
		t.Error("first call not correlated with first object")
	}
	if seq[1].Instruction != objs[1] {
		t.Error("second call not correlated with second object")
	}
}

func TestInstructionCorrelationByText(t *testing.T) {
	objs := instrs("XIC(Start)", "TON(Timer_1,1000)", "OTE(Motor)")
	r := New(Config{Number: 0, Text: "XIC(Start)[TON(Timer_1,1000),OTE(Motor)];", Instructions: objs})
	seq := mustSequence(t, r)

	byText := map[string]Instruction{}
	for _, e := range seq {
		if e.Instruction != nil {
			byText[e.Token.Text] = e.Instruction
		}
	}
	for i, text := range []string{"XIC(Start)", "TON(Timer_1,1000)", "OTE(Motor)"} {
		if byText[text] != objs[i] {
			t.Errorf("%s correlated with wrong object", text)
		}
	}
}

func TestInstructionCorrelationConsumesMatches(t *testing.T) {
	// Objects supplied out of token order still pair by text, and a
	// matched object never serves a second token.
	objs := instrs("OTE(B)", "XIC(A)")
	r := New(Config{Number: 0, Text: "XIC(A)OTE(B);", Instructions: objs})
	seq := mustSequence(t, r)

	if seq[0].Instruction != objs[1] {
		t.Error("XIC(A) not correlated with its matching object")
	}
	if seq[1].Instruction != objs[0] {
		t.Error("OTE(B) not correlated with its matching object")
	}
}

func TestInstructionCorrelationExhausted(t *testing.T) {
	r := New(Config{Number: 3, Text: "XIC(A)OTE(B);", Instructions: instrs("XIC(A)")})
	err := r.Compile(context.Background())
	if err == nil {
		t.Fatal("expected error for too few instruction objects")
	}
	if !errors.Is(err, ErrInstructionNotFound) {
		t.Errorf("error = %v, want wrapped ErrInstructionNotFound", err)
	}
	if !IsResolutionError(err) {
		t.Errorf("error %v is not a ResolutionError", err)
	}
}

func TestNilInstructionsCompile(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)OTE(B);"})
	seq := mustSequence(t, r)
	for i, e := range seq {
		if e.Instruction != nil {
			t.Errorf("element %d carries an instruction with none provided", i)
		}
	}
}

func TestArraySubscriptStaysOneElement(t *testing.T) {
	r := New(Config{Number: 0, Text: "MOV(Tag[0],Dest);"})
	seq := mustSequence(t, r)
	if len(seq) != 1 {
		t.Fatalf("expected 1 element, got %d", len(seq))
	}
	if seq[0].Token.Kind != rungtext.KindInstruction {
		t.Error("array subscript parsed as structural symbol")
	}
}

func TestBranchLookup(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),OTE(C)];"})
	ctx := context.Background()

	if _, err := r.Branch(ctx, "rung_0_branch_0"); err != nil {
		t.Errorf("known branch lookup failed: %v", err)
	}
	_, err := r.Branch(ctx, "rung_0_branch_9")
	if !errors.Is(err, ErrBranchNotFound) {
		t.Errorf("unknown branch error = %v, want wrapped ErrBranchNotFound", err)
	}
}
