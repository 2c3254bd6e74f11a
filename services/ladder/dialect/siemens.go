// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dialect

import "fmt"

// Siemens lifts rungs from TIA Portal block exports, where each
// Networks.Network entry is one rung. Networks carry no explicit
// number, so ordering follows document order.
type Siemens struct{}

// Name returns "siemens".
func (Siemens) Name() string {
	return "siemens"
}

// Rungs extracts Networks.Network entries, numbering them by position.
func (Siemens) Rungs(doc map[string]any) ([]RawRung, error) {
	networks, ok := doc["Networks"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing Networks", ErrMalformedDocument)
	}
	entries := asList(networks["Network"])
	if entries == nil {
		return nil, fmt.Errorf("%w: Networks has no Network entries", ErrMalformedDocument)
	}

	out := make([]RawRung, 0, len(entries))
	for i, entry := range entries {
		network, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: Network entry %d is not an object", ErrMalformedDocument, i)
		}
		text, ok := network["Source"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: Network %d has no Source", ErrMalformedDocument, i)
		}
		comment, _ := network["Title"].(string)
		out = append(out, RawRung{Number: i, Text: text, Comment: comment})
	}
	return out, nil
}
