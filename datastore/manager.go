/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Manager is a thread-safe set of named document stores, used to pick a
// backend by configuration name and to copy documents between backends.
type Manager struct {
	mu     sync.RWMutex
	stores map[string]DocumentStore
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		stores: make(map[string]DocumentStore),
	}
}

// Register stores the provided DocumentStore under the given name.
func (m *Manager) Register(name string, ds DocumentStore) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.stores[name]; exists {
		return fmt.Errorf("document store %q already registered", name)
	}
	m.stores[name] = ds
	return nil
}

// Get retrieves the DocumentStore registered under name.
func (m *Manager) Get(name string) (DocumentStore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ds, exists := m.stores[name]
	if !exists {
		return nil, fmt.Errorf("document store %q not found", name)
	}
	return ds, nil
}

// Names returns all registered store names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.stores))
	for k := range m.stores {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Copy loads the document held by store from and saves it unchanged to store to.
func (m *Manager) Copy(ctx context.Context, from, to string) error {
	if from == to {
		return fmt.Errorf("copy %q: source and destination are the same store", from)
	}
	src, err := m.Get(from)
	if err != nil {
		return err
	}
	dst, err := m.Get(to)
	if err != nil {
		return err
	}

	doc, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load from %q: %w", from, err)
	}
	if err := dst.Save(ctx, doc); err != nil {
		return fmt.Errorf("save to %q: %w", to, err)
	}
	return nil
}
