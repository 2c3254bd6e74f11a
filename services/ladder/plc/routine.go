// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package plc

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/controlrox/ladder/pkg/logging"
	"github.com/controlrox/ladder/services/ladder/rung"
)

// Routine is an ordered collection of rungs. Rung numbers always match
// their slice position; removal renumbers the tail.
type Routine struct {
	id     string
	name   string
	rungs  []*rung.Rung
	logger *logging.Logger
}

// NewRoutine creates an empty routine with a fresh id.
func NewRoutine(name string, logger *logging.Logger) *Routine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Routine{
		id:     uuid.NewString(),
		name:   name,
		logger: logger,
	}
}

// ID returns the routine's unique id.
func (rt *Routine) ID() string {
	return rt.id
}

// Name returns the routine name.
func (rt *Routine) Name() string {
	return rt.name
}

// Rungs returns the routine's rungs in order.
func (rt *Routine) Rungs() []*rung.Rung {
	return rt.rungs
}

// Len returns the number of rungs.
func (rt *Routine) Len() int {
	return len(rt.rungs)
}

// Rung returns the rung at position n.
func (rt *Routine) Rung(n int) (*rung.Rung, error) {
	if n < 0 || n >= len(rt.rungs) {
		return nil, fmt.Errorf("routine %s: rung %d of %d: %w",
			rt.name, n, len(rt.rungs), rung.ErrPositionOutOfRange)
	}
	return rt.rungs[n], nil
}

// AddRungText appends a rung built from text. Instruction objects are
// extracted from the text so the compiled sequence correlates against
// them.
func (rt *Routine) AddRungText(text, comment string) *rung.Rung {
	r := rung.New(rung.Config{
		Number:       len(rt.rungs),
		Text:         text,
		Comment:      comment,
		Instructions: asRungInstructions(InstructionsFromText(text)),
		Logger:       rt.logger,
	})
	rt.rungs = append(rt.rungs, r)
	return r
}

// RemoveRung deletes the rung at position n and renumbers the rungs
// after it.
func (rt *Routine) RemoveRung(n int) error {
	if n < 0 || n >= len(rt.rungs) {
		return fmt.Errorf("routine %s: rung %d of %d: %w",
			rt.name, n, len(rt.rungs), rung.ErrPositionOutOfRange)
	}
	rt.rungs = append(rt.rungs[:n], rt.rungs[n+1:]...)
	for i := n; i < len(rt.rungs); i++ {
		rt.rungs[i].SetNumber(i)
	}
	return nil
}

// Compile compiles every rung, stopping at the first failure.
func (rt *Routine) Compile(ctx context.Context) error {
	for _, r := range rt.rungs {
		if err := r.Compile(ctx); err != nil {
			return fmt.Errorf("routine %s: %w", rt.name, err)
		}
	}
	return nil
}

// Validate checks every rung's branch structure without compiling.
// Returns one error per malformed rung.
func (rt *Routine) Validate() []error {
	var errs []error
	for _, r := range rt.rungs {
		if err := r.ValidateBranchStructure(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// asRungInstructions adapts compiled instructions to the rung
// package's interface.
func asRungInstructions(in []*Instruction) []rung.Instruction {
	if in == nil {
		return nil
	}
	out := make([]rung.Instruction, 0, len(in))
	for _, i := range in {
		out = append(out, i)
	}
	return out
}
