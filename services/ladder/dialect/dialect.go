// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package dialect adapts vendor project exports to the common rung
// model. Each vendor stores ladder content under different keys; a
// Source knows one vendor's layout and yields plain numbered rung
// text.
package dialect

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/controlrox/ladder/pkg/logging"
	"github.com/controlrox/ladder/services/ladder/plc"
)

// ErrUnknownDialect indicates a dialect name with no registered
// source.
var ErrUnknownDialect = errors.New("unknown dialect")

// ErrMalformedDocument indicates an export document missing the keys
// the dialect expects.
var ErrMalformedDocument = errors.New("malformed export document")

// RawRung is one rung as lifted from a vendor document, before any
// compilation.
type RawRung struct {
	Number  int
	Text    string
	Comment string
}

// Source lifts rungs out of one vendor's decoded export document.
type Source interface {
	// Name returns the dialect name used for registry lookup.
	Name() string

	// Rungs extracts the rungs of one routine document. Order in the
	// result is unspecified; callers sort by number.
	Rungs(doc map[string]any) ([]RawRung, error)
}

// CompileRoutine lifts rungs from doc via src, orders them by vendor
// rung number, and builds a compiled routine named name.
func CompileRoutine(ctx context.Context, name string, src Source, doc map[string]any, logger *logging.Logger) (*plc.Routine, error) {
	raw, err := src.Rungs(doc)
	if err != nil {
		return nil, fmt.Errorf("dialect %s: %w", src.Name(), err)
	}
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].Number < raw[j].Number
	})

	routine := plc.NewRoutine(name, logger)
	for _, rr := range raw {
		routine.AddRungText(rr.Text, rr.Comment)
	}
	if err := routine.Compile(ctx); err != nil {
		return nil, err
	}
	return routine, nil
}

// asInt coerces the number representations vendor exports use.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		var out int
		if _, err := fmt.Sscanf(n, "%d", &out); err != nil {
			return 0, false
		}
		return out, true
	default:
		return 0, false
	}
}

// asList normalizes the single-entry collapse common in converted XML
// documents, where one child decodes as a map instead of a list.
func asList(v any) []any {
	switch entries := v.(type) {
	case []any:
		return entries
	case map[string]any:
		return []any{entries}
	default:
		return nil
	}
}
