// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package rungtext tokenizes ladder rung text.
//
// Rung text is the vendor interchange form of one ladder rung: one or
// more instruction calls written MNEMONIC(arg1,arg2,...) and bracketed
// parallel branches written [leg1,leg2,...], concatenated with no
// required whitespace and terminated by a semicolon:
//
//	XIC(Start)[OTE(Run),OTE(Lamp)];
//
// The package splits that text into tokens: complete instruction-call
// substrings, or the single-character structural symbols '[', ']' and
// ','. Bracket and comma characters that fall inside an instruction's
// own argument list (array subscripts such as Tag[0], multi-argument
// calls) are part of the instruction text and are never emitted as
// structural tokens.
package rungtext

import (
	"regexp"
	"strings"
)

// instructionStart matches the head of an instruction call: a name of
// letters, digits and underscores followed by an opening parenthesis.
var instructionStart = regexp.MustCompile(`[A-Za-z0-9_]+\(`)

// Span is a half-open character range [Start, End) within rung text.
type Span struct {
	Start int
	End   int
}

// Contains reports whether the character index i falls inside the span.
func (s Span) Contains(i int) bool {
	return s.Start <= i && i < s.End
}

// ExtractInstructions returns every complete, balanced instruction-call
// substring of text, in encounter order.
//
// A call is complete when its parentheses balance before the end of the
// input; unterminated calls are skipped. Nested calls produce one entry
// per matched head, outermost first.
//
// Parameters:
//   - text: Raw rung text (or any fragment of it).
//
// Returns:
//
//	The instruction substrings found, possibly empty.
func ExtractInstructions(text string) []string {
	var instructions []string

	for _, loc := range instructionStart.FindAllStringIndex(text, -1) {
		start := loc[0]
		parenCount := 1
		pos := loc[1] // first character after the opening parenthesis

		for pos < len(text) && parenCount > 0 {
			switch text[pos] {
			case '(':
				parenCount++
			case ')':
				parenCount--
			}
			pos++
		}

		if parenCount == 0 {
			instructions = append(instructions, text[start:pos])
		}
	}

	return instructions
}

// InstructionSpans returns the character ranges of each extracted
// instruction, located left to right with a moving search start so a
// repeated instruction maps to successive occurrences.
func InstructionSpans(text string) []Span {
	var spans []Span

	searchStart := 0
	for _, instr := range ExtractInstructions(text) {
		pos := index(text, instr, searchStart)
		if pos < 0 {
			continue
		}
		spans = append(spans, Span{Start: pos, End: pos + len(instr)})
		searchStart = pos + len(instr)
	}

	return spans
}

// IsInstructionCall reports whether text is exactly one complete
// instruction call with nothing before or after it.
//
// Used to validate replacement text before it is substituted into a
// rung.
func IsInstructionCall(text string) bool {
	if text == "" {
		return false
	}
	instrs := ExtractInstructions(text)
	return len(instrs) > 0 && instrs[0] == text
}

// index is strings.Index with a starting offset.
func index(text, substr string, from int) int {
	if from > len(text) {
		return -1
	}
	if i := strings.Index(text[from:], substr); i >= 0 {
		return from + i
	}
	return -1
}
