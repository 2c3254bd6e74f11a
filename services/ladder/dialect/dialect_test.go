// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dialect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rockwellDoc() map[string]any {
	return map[string]any{
		"RLLContent": map[string]any{
			"Rung": []any{
				map[string]any{
					"@Number": "1",
					"Text":    "XIC(D)OTE(E);",
				},
				map[string]any{
					"@Number": "0",
					"Text":    "XIC(A)[OTE(B),OTE(C)];",
					"Comment": "start interlock",
				},
			},
		},
	}
}

func TestRockwellRungs(t *testing.T) {
	rungs, err := Rockwell{}.Rungs(rockwellDoc())
	require.NoError(t, err)
	require.Len(t, rungs, 2)
	assert.Equal(t, 1, rungs[0].Number)
	assert.Equal(t, "start interlock", rungs[1].Comment)
}

func TestRockwellSingleRungCollapse(t *testing.T) {
	doc := map[string]any{
		"RLLContent": map[string]any{
			"Rung": map[string]any{
				"@Number": 0,
				"Text":    "XIC(A);",
			},
		},
	}
	rungs, err := Rockwell{}.Rungs(doc)
	require.NoError(t, err)
	require.Len(t, rungs, 1)
	assert.Equal(t, "XIC(A);", rungs[0].Text)
}

func TestRockwellMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{"empty", map[string]any{}},
		{"no rungs", map[string]any{"RLLContent": map[string]any{}}},
		{"missing number", map[string]any{
			"RLLContent": map[string]any{
				"Rung": []any{map[string]any{"Text": "XIC(A);"}},
			},
		}},
		{"missing text", map[string]any{
			"RLLContent": map[string]any{
				"Rung": []any{map[string]any{"@Number": 0}},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rockwell{}.Rungs(tt.doc)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestSiemensRungs(t *testing.T) {
	doc := map[string]any{
		"Networks": map[string]any{
			"Network": []any{
				map[string]any{"Source": "XIC(A)OTE(B);", "Title": "pump start"},
				map[string]any{"Source": "XIC(C)[OTE(D),OTE(E)];"},
			},
		},
	}
	rungs, err := Siemens{}.Rungs(doc)
	require.NoError(t, err)
	require.Len(t, rungs, 2)
	assert.Equal(t, 0, rungs[0].Number)
	assert.Equal(t, "pump start", rungs[0].Comment)
	assert.Equal(t, 1, rungs[1].Number)
}

func TestRegistry(t *testing.T) {
	src, err := Get("rockwell")
	require.NoError(t, err)
	assert.Equal(t, "rockwell", src.Name())

	_, err = Get("mitsubishi")
	assert.ErrorIs(t, err, ErrUnknownDialect)

	assert.Equal(t, []string{"rockwell", "siemens"}, Names())
}

func TestCompileRoutine(t *testing.T) {
	routine, err := CompileRoutine(context.Background(), "Main", Rockwell{}, rockwellDoc(), nil)
	require.NoError(t, err)
	require.Equal(t, 2, routine.Len())

	// Vendor numbers order the rungs; routine positions renumber them.
	first, err := routine.Rung(0)
	require.NoError(t, err)
	assert.Equal(t, "XIC(A)[OTE(B),OTE(C)];", first.Text())
	assert.Equal(t, 0, first.Number())
}
