/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sync"
)

// EnumTable maps enumeration names to values and back without reflection.
type EnumTable[T comparable] struct {
	mu      sync.RWMutex
	kind    string
	byName  map[string]T
	byValue map[T]string
	names   []string
}

// NewEnumTable creates an empty table. kind names the enumeration in error messages.
func NewEnumTable[T comparable](kind string) *EnumTable[T] {
	return &EnumTable[T]{
		kind:    kind,
		byName:  make(map[string]T),
		byValue: make(map[T]string),
	}
}

// Register adds a name/value pair and returns the table for chaining.
// It panics if either the name or the value is already registered, to prevent accidental overrides.
func (t *EnumTable[T]) Register(name string, value T) *EnumTable[T] {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byName[name]; exists {
		panic(fmt.Sprintf("%s registry: name %q already registered", t.kind, name))
	}
	if existing, exists := t.byValue[value]; exists {
		panic(fmt.Sprintf("%s registry: value %v already registered as %q", t.kind, value, existing))
	}
	t.byName[name] = value
	t.byValue[value] = name
	t.names = append(t.names, name)
	return t
}

// Value returns the value registered under name.
// If no value is registered, it returns an error.
func (t *EnumTable[T]) Value(name string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.byName[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s registry: no value registered for name %q", t.kind, name)
	}
	return v, nil
}

// Name returns the name registered for value.
func (t *EnumTable[T]) Name(value T) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name, ok := t.byValue[value]
	return name, ok
}

// Names lists registered names in registration order.
func (t *EnumTable[T]) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return append([]string(nil), t.names...)
}
