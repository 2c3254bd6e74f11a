// Copyright (C) 2026 ControlRox (dev@controlrox.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dialect

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]Source{}
)

func init() {
	Register(Rockwell{})
	Register(Siemens{})
}

// Register adds a source under its name, replacing any previous
// registration.
func Register(src Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[src.Name()] = src
}

// Get returns the source registered under name.
func Get(name string) (Source, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	src, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
	return src, nil
}

// Names returns the registered dialect names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
