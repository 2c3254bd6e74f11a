// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package plc holds the compiled program model layered above raw rung
// text: instructions, routines, and their maintenance operations.
package plc

import (
	"strings"

	"github.com/controlrox/ladder/services/ladder/rungtext"
)

// Instruction is one compiled ladder instruction call. Equality is by
// full call text; two XIC(A) calls are equal no matter where they sit.
type Instruction struct {
	text string
}

// NewInstruction builds an instruction from its call text. Returns nil
// when text is not exactly one complete instruction call.
func NewInstruction(text string) *Instruction {
	if !rungtext.IsInstructionCall(text) {
		return nil
	}
	return &Instruction{text: text}
}

// Text returns the full call text, for example "TON(Timer_1,1000)".
func (i *Instruction) Text() string {
	return i.text
}

// Mnemonic returns the instruction name before the parentheses.
func (i *Instruction) Mnemonic() string {
	open := strings.IndexByte(i.text, '(')
	if open < 0 {
		return i.text
	}
	return i.text[:open]
}

// Operands returns the comma-separated arguments of the call. Operands
// are split textually; a nested call in an argument is not recursed
// into.
func (i *Instruction) Operands() []string {
	open := strings.IndexByte(i.text, '(')
	closing := strings.LastIndexByte(i.text, ')')
	if open < 0 || closing <= open {
		return nil
	}
	inner := i.text[open+1 : closing]
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	for idx := range parts {
		parts[idx] = strings.TrimSpace(parts[idx])
	}
	return parts
}

// Equal reports text equality with other.
func (i *Instruction) Equal(other *Instruction) bool {
	return other != nil && i.text == other.text
}

// InstructionsFromText extracts every complete call in rung text as a
// compiled instruction, in reading order.
func InstructionsFromText(text string) []*Instruction {
	calls := rungtext.ExtractInstructions(text)
	out := make([]*Instruction, 0, len(calls))
	for _, call := range calls {
		out = append(out, &Instruction{text: call})
	}
	return out
}
