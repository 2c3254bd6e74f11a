// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package rung

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
//
// These errors can be checked using errors.Is() to determine the
// category of failure without inspecting error messages.
var (
	// ErrNoActiveBranch indicates a ',' token encountered outside any
	// open branch.
	ErrNoActiveBranch = errors.New("no active branch")

	// ErrUnmatchedBranch indicates a '[' without a matching ']' or a
	// ']' without a matching '['.
	ErrUnmatchedBranch = errors.New("unmatched branch token")

	// ErrNotBranchStart indicates that an operation requiring a '['
	// token was pointed at something else.
	ErrNotBranchStart = errors.New("not a branch start token")

	// ErrNoMatchingEnd indicates that a branch's closing ']' was not
	// found before the token stream was exhausted.
	ErrNoMatchingEnd = errors.New("no matching branch end")

	// ErrInstructionNotFound indicates that an instruction target
	// (by text, index or object) could not be resolved.
	ErrInstructionNotFound = errors.New("instruction not found")

	// ErrBranchNotFound indicates an unknown branch id.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrPositionOutOfRange indicates a token position outside the
	// valid range for the operation. Raised before any mutation is
	// applied, so a rung is never left partially rewritten.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrInvalidInstructionText indicates replacement text that is not
	// exactly one complete instruction call.
	ErrInvalidInstructionText = errors.New("invalid instruction text")

	// ErrNormalizationDiverged indicates that degenerate-branch
	// normalization did not reach a fixed point within its iteration
	// cap.
	ErrNormalizationDiverged = errors.New("normalization did not converge")
)

// StructureError reports a structural malformation in rung text:
// unmatched brackets, a branch separator outside any branch, or an
// operation pointed at the wrong token kind.
//
// It implements the error interface and unwraps to one of the
// structural sentinels above.
type StructureError struct {
	// Rung is the rung number of the offending rung.
	Rung int

	// Position is the token position where the malformation was
	// detected. -1 when the error is not tied to one token.
	Position int

	// Message describes the malformation in human-readable form.
	Message string

	// Cause is the sentinel this error wraps.
	Cause error
}

// Error returns a formatted message including rung and token location.
func (e *StructureError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("rung %d: token %d: %s", e.Rung, e.Position, e.Message)
	}
	return fmt.Sprintf("rung %d: %s", e.Rung, e.Message)
}

// Unwrap returns the sentinel cause.
func (e *StructureError) Unwrap() error {
	return e.Cause
}

// newStructureError builds a StructureError for the given rung.
func newStructureError(rungNumber, position int, cause error, format string, args ...any) *StructureError {
	return &StructureError{
		Rung:     rungNumber,
		Position: position,
		Message:  fmt.Sprintf(format, args...),
		Cause:    cause,
	}
}

// ResolutionError reports a failed instruction or branch lookup during
// correlation or edit targeting. The offending identifier is carried
// verbatim; resolution never falls back to a guess.
type ResolutionError struct {
	// Rung is the rung number of the offending rung.
	Rung int

	// Target is the identifier that failed to resolve: instruction
	// text, a stringified token index, or a branch id.
	Target string

	// Message describes the failure.
	Message string

	// Cause is the sentinel this error wraps.
	Cause error
}

// Error returns a formatted message naming the unresolved target.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("rung %d: %s: %s", e.Rung, e.Target, e.Message)
}

// Unwrap returns the sentinel cause.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

func newResolutionError(rungNumber int, target string, cause error, format string, args ...any) *ResolutionError {
	return &ResolutionError{
		Rung:    rungNumber,
		Target:  target,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsStructureError checks if an error is or wraps a StructureError.
func IsStructureError(err error) bool {
	var structErr *StructureError
	return errors.As(err, &structErr)
}

// IsResolutionError checks if an error is or wraps a ResolutionError.
func IsResolutionError(err error) bool {
	var resErr *ResolutionError
	return errors.As(err, &resErr)
}
