// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dialect

import "fmt"

// Rockwell lifts rungs from Logix 5000 L5X routine exports. Rung
// entries live under RLLContent.Rung with attribute-style keys from
// the XML conversion.
type Rockwell struct{}

// Name returns "rockwell".
func (Rockwell) Name() string {
	return "rockwell"
}

// Rungs extracts RLLContent.Rung entries. A routine with a single rung
// decodes as one map rather than a list.
func (Rockwell) Rungs(doc map[string]any) ([]RawRung, error) {
	content, ok := doc["RLLContent"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing RLLContent", ErrMalformedDocument)
	}
	entries := asList(content["Rung"])
	if entries == nil {
		return nil, fmt.Errorf("%w: RLLContent has no Rung entries", ErrMalformedDocument)
	}

	out := make([]RawRung, 0, len(entries))
	for i, entry := range entries {
		rung, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: Rung entry %d is not an object", ErrMalformedDocument, i)
		}
		number, ok := asInt(rung["@Number"])
		if !ok {
			return nil, fmt.Errorf("%w: Rung entry %d has no @Number", ErrMalformedDocument, i)
		}
		text, ok := rung["Text"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: Rung %d has no Text", ErrMalformedDocument, number)
		}
		comment, _ := rung["Comment"].(string)
		out = append(out, RawRung{Number: number, Text: text, Comment: comment})
	}
	return out, nil
}
