// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rungtext

import (
	"reflect"
	"testing"
)

func TestTokenize_NoBranches(t *testing.T) {
	tokens := Tokenize("XIC(A)OTE(B);")

	want := []string{"XIC(A)", "OTE(B)"}
	if !reflect.DeepEqual(Texts(tokens), want) {
		t.Errorf("got %v, want %v", Texts(tokens), want)
	}
	for _, tok := range tokens {
		if tok.Kind != KindInstruction {
			t.Errorf("token %q: kind = %v, want instruction", tok.Text, tok.Kind)
		}
	}
}

func TestTokenize_SingleBranch(t *testing.T) {
	tokens := Tokenize("XIC(A)[OTE(B),OTE(C)];")

	want := []string{"XIC(A)", "[", "OTE(B)", ",", "OTE(C)", "]"}
	if !reflect.DeepEqual(Texts(tokens), want) {
		t.Errorf("got %v, want %v", Texts(tokens), want)
	}

	wantKinds := []Kind{
		KindInstruction, KindBranchStart, KindInstruction,
		KindBranchNext, KindInstruction, KindBranchEnd,
	}
	for i, tok := range tokens {
		if tok.Kind != wantKinds[i] {
			t.Errorf("token %d (%q): kind = %v, want %v", i, tok.Text, tok.Kind, wantKinds[i])
		}
	}
}

func TestTokenize_ArraySubscriptStaysInstruction(t *testing.T) {
	tokens := Tokenize("MOV(Tag[0],Dest);")

	want := []string{"MOV(Tag[0],Dest)"}
	if !reflect.DeepEqual(Texts(tokens), want) {
		t.Errorf("got %v, want %v", Texts(tokens), want)
	}
}

func TestTokenize_NestedBranches(t *testing.T) {
	tokens := Tokenize("XIC(A)[OTE(B),[OTE(C),OTE(D)]];")

	want := []string{"XIC(A)", "[", "OTE(B)", ",", "[", "OTE(C)", ",", "OTE(D)", "]", "]"}
	if !reflect.DeepEqual(Texts(tokens), want) {
		t.Errorf("got %v, want %v", Texts(tokens), want)
	}
}

func TestTokenize_Empty(t *testing.T) {
	if tokens := Tokenize(""); len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", Texts(tokens))
	}
}

func TestTokenize_RoundTrip(t *testing.T) {
	// Round-trip law: joining with no separator reproduces the input
	// for texts that are exact concatenations of instruction calls and
	// structural symbols.
	cases := []string{
		"XIC(A)OTE(B)",
		"XIC(A)[OTE(B),OTE(C)]",
		"XIC(A)[OTE(B),[OTE(C),OTE(D)]]",
		"MOV(Tag[0],Dest)",
		"[XIC(A),XIC(B)][XIC(C),XIC(D)]",
	}
	for _, text := range cases {
		if got := Join(Tokenize(text)); got != text {
			t.Errorf("round trip of %q produced %q", text, got)
		}
	}
}

func TestTokenize_DropsTerminator(t *testing.T) {
	// The rung terminator is not an instruction and not a structural
	// symbol; it does not survive the segment flush.
	tokens := Tokenize("XIC(A)OTE(B);")
	if got := Join(tokens); got != "XIC(A)OTE(B)" {
		t.Errorf("got %q, want %q", got, "XIC(A)OTE(B)")
	}
}

func TestTokenize_UnbalancedIsTotal(t *testing.T) {
	// Tokenize never fails; validity is checked elsewhere.
	tokens := Tokenize("XIC(A)[OTE(B);")

	want := []string{"XIC(A)", "[", "OTE(B)"}
	if !reflect.DeepEqual(Texts(tokens), want) {
		t.Errorf("got %v, want %v", Texts(tokens), want)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindInstruction: "instruction",
		KindBranchStart: "branch_start",
		KindBranchEnd:   "branch_end",
		KindBranchNext:  "branch_next",
		Kind(42):        "unknown",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

func TestIsSymbol(t *testing.T) {
	if Instruction("XIC(A)").IsSymbol() {
		t.Error("instruction token must not be a symbol")
	}
	for _, tok := range []Token{BranchStart, BranchEnd, BranchNext} {
		if !tok.IsSymbol() {
			t.Errorf("token %q must be a symbol", tok.Text)
		}
	}
}
