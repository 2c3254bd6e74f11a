// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rung

import (
	"errors"
	"testing"
)

func TestFindMatchingBranchEnd(t *testing.T) {
	// Tokens: XIC(A) [ OTE(B) , [ OTE(C) , OTE(D) ] ]
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),[OTE(C),OTE(D)]];"})

	tests := []struct {
		name string
		pos  int
		want int
	}{
		{"outer", 1, 9},
		{"inner", 4, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.FindMatchingBranchEnd(tt.pos)
			if err != nil {
				t.Fatalf("FindMatchingBranchEnd(%d) error: %v", tt.pos, err)
			}
			if got != tt.want {
				t.Errorf("FindMatchingBranchEnd(%d) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestFindMatchingBranchEndErrors(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),OTE(C)];"})

	if _, err := r.FindMatchingBranchEnd(0); !errors.Is(err, ErrNotBranchStart) {
		t.Errorf("instruction position error = %v, want wrapped ErrNotBranchStart", err)
	}
	if _, err := r.FindMatchingBranchEnd(42); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("out of range error = %v, want wrapped ErrPositionOutOfRange", err)
	}

	open := New(Config{Number: 0, Text: "XIC(A)[OTE(B),OTE(C);"})
	if _, err := open.FindMatchingBranchEnd(1); !errors.Is(err, ErrNoMatchingEnd) {
		t.Errorf("unclosed branch error = %v, want wrapped ErrNoMatchingEnd", err)
	}
}

func TestBranchNestingLevel(t *testing.T) {
	// Tokens: XIC(A) [ OTE(B) , [ OTE(C) , OTE(D) ] ]
	r := New(Config{Number: 0, Text: "XIC(A)[OTE(B),[OTE(C),OTE(D)]];"})

	tests := []struct {
		name string
		pos  int
		want int
	}{
		{"main rail instruction", 0, 0},
		{"outer open", 1, 1},
		{"inside outer", 2, 1},
		{"inner open", 4, 2},
		{"inside inner", 5, 2},
		{"outer close", 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.BranchNestingLevel(tt.pos)
			if err != nil {
				t.Fatalf("BranchNestingLevel(%d) error: %v", tt.pos, err)
			}
			if got != tt.want {
				t.Errorf("BranchNestingLevel(%d) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}

	if _, err := r.BranchNestingLevel(40); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("out of range error = %v, want wrapped ErrPositionOutOfRange", err)
	}
}

func TestBranchInternalNestingLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		want int
	}{
		{"two legs", "XIC(A)[OTE(B),OTE(C)];", 1, 1},
		{"three legs", "XIC(A)[OTE(B),OTE(C),OTE(D)];", 1, 2},
		{"degenerate", "XIC(A)[OTE(B)];", 1, 0},
		// The nested branch's separator must not leak into the outer count.
		{"nested not counted", "XIC(A)[OTE(B),[OTE(C),OTE(D)]];", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Config{Number: 0, Text: tt.text})
			got, err := r.BranchInternalNestingLevel(tt.pos)
			if err != nil {
				t.Fatalf("BranchInternalNestingLevel(%d) error: %v", tt.pos, err)
			}
			if got != tt.want {
				t.Errorf("BranchInternalNestingLevel(%d) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestMaxBranchDepth(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"no branches", "XIC(A)OTE(B);", 0},
		{"single", "XIC(A)[OTE(B),OTE(C)];", 1},
		{"nested", "XIC(A)[OTE(B),[OTE(C),OTE(D)]];", 2},
		{"sequential", "[XIC(A),XIC(B)][XIC(C),XIC(D)];", 1},
		{"empty", ";", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Config{Number: 0, Text: tt.text})
			if got := r.MaxBranchDepth(); got != tt.want {
				t.Errorf("MaxBranchDepth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateBranchStructure(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"valid", "XIC(A)[OTE(B),OTE(C)];", nil},
		{"valid nested", "XIC(A)[OTE(B),[OTE(C),OTE(D)]];", nil},
		{"degenerate is valid", "XIC(A)[OTE(B)];", nil},
		{"unclosed", "XIC(A)[OTE(B),OTE(C);", ErrNoMatchingEnd},
		{"stray end", "XIC(A)]OTE(B);", ErrUnmatchedBranch},
		{"stray separator", "XIC(A),OTE(B);", ErrNoActiveBranch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Config{Number: 0, Text: tt.text})
			err := r.ValidateBranchStructure()
			if tt.want == nil {
				if err != nil {
					t.Errorf("ValidateBranchStructure() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateBranchStructure() = %v, want wrapped %v", err, tt.want)
			}
		})
	}
}

func TestQueriesWorkOnDirtyRung(t *testing.T) {
	r := New(Config{Number: 0, Text: "XIC(A);"})
	mustSequence(t, r)

	// Queries must see the new text before any recompile.
	r.SetText("XIC(A)[OTE(B),OTE(C)];")
	end, err := r.FindMatchingBranchEnd(1)
	if err != nil {
		t.Fatalf("FindMatchingBranchEnd() on dirty rung: %v", err)
	}
	if end != 5 {
		t.Errorf("FindMatchingBranchEnd(1) = %d, want 5", end)
	}
	if r.Compiled() {
		t.Error("query triggered a compile")
	}
}
