// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rungtext

import "strings"

// Kind classifies a token.
type Kind int

const (
	// KindInstruction is a complete instruction-call substring.
	KindInstruction Kind = iota

	// KindBranchStart is the '[' structural symbol.
	KindBranchStart

	// KindBranchEnd is the ']' structural symbol.
	KindBranchEnd

	// KindBranchNext is the ',' structural symbol separating sibling
	// legs within a branch.
	KindBranchNext
)

// String returns the token-kind name.
func (k Kind) String() string {
	switch k {
	case KindInstruction:
		return "instruction"
	case KindBranchStart:
		return "branch_start"
	case KindBranchEnd:
		return "branch_end"
	case KindBranchNext:
		return "branch_next"
	default:
		return "unknown"
	}
}

// Token is one unit of tokenized rung text: an instruction substring or
// a single structural symbol. Tokens are positioned by their integer
// index in the token sequence, not by character offset.
type Token struct {
	Kind Kind
	Text string
}

// IsSymbol reports whether the token is a structural symbol rather
// than an instruction.
func (t Token) IsSymbol() bool {
	return t.Kind != KindInstruction
}

// Instruction returns an instruction token for the given text.
func Instruction(text string) Token {
	return Token{Kind: KindInstruction, Text: text}
}

// Structural symbol tokens.
var (
	BranchStart = Token{Kind: KindBranchStart, Text: "["}
	BranchEnd   = Token{Kind: KindBranchEnd, Text: "]"}
	BranchNext  = Token{Kind: KindBranchNext, Text: ","}
)

// Tokenize splits rung text into an ordered token sequence.
//
// The scan walks text character by character, accumulating a current
// segment. A '[', ']' or ',' whose character position falls inside an
// instruction-call range is ordinary instruction text and stays in the
// segment; otherwise the segment is flushed through ExtractInstructions
// (zero or more instruction tokens, in encounter order) and the symbol
// becomes its own token. Any trailing segment is flushed at end of
// input.
//
// Joining the returned tokens with no separator reproduces text exactly
// when the input is an exact concatenation of instruction calls and
// structural symbols. The rung terminator ';' and whitespace between
// instructions do not survive the flush.
//
// Tokenize is pure and total: it never fails, even on text with
// unbalanced brackets. Structural validity is the caller's concern.
func Tokenize(text string) []Token {
	spans := InstructionSpans(text)

	var tokens []Token
	var segment strings.Builder

	flush := func() {
		if strings.TrimSpace(segment.String()) != "" {
			for _, instr := range ExtractInstructions(segment.String()) {
				tokens = append(tokens, Instruction(instr))
			}
		}
		segment.Reset()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '[', ']', ',':
			if insideAny(spans, i) {
				// Part of an instruction (array subscript or
				// argument separator), keep it.
				segment.WriteByte(c)
				continue
			}
			flush()
			switch c {
			case '[':
				tokens = append(tokens, BranchStart)
			case ']':
				tokens = append(tokens, BranchEnd)
			case ',':
				tokens = append(tokens, BranchNext)
			}
		default:
			segment.WriteByte(c)
		}
	}
	flush()

	return tokens
}

// Join concatenates token texts with no separator.
func Join(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Texts returns the literal text of each token, in order.
func Texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func insideAny(spans []Span, i int) bool {
	for _, s := range spans {
		if s.Contains(i) {
			return true
		}
	}
	return false
}
