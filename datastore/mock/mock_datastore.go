/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory DocumentStore for testing
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/suparena/portalnetwork/errors"
	"github.com/suparena/portalnetwork/storagemodels"
)

// DocumentStore is an in-memory implementation of datastore.DocumentStore for testing.
// Documents are deep-copied on the way in and out so callers cannot mutate stored state.
type DocumentStore struct {
	mu        sync.RWMutex
	doc       *storagemodels.Section
	loadError error
	saveError error
	saves     int
}

// New creates an empty mock DocumentStore
func New() *DocumentStore {
	return &DocumentStore{}
}

// WithDocument preloads the store with doc
func (m *DocumentStore) WithDocument(doc *storagemodels.Section) *DocumentStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc.Clone()
	return m
}

// WithLoadError makes Load operations return an error
func (m *DocumentStore) WithLoadError(err error) *DocumentStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
	return m
}

// WithSaveError makes Save operations return an error
func (m *DocumentStore) WithSaveError(err error) *DocumentStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
	return m
}

// Load returns a copy of the stored document
func (m *DocumentStore) Load(ctx context.Context) (*storagemodels.Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.loadError != nil {
		return nil, m.loadError
	}
	if m.doc == nil {
		return nil, fmt.Errorf("mock: %w", errors.ErrNoPriorData)
	}
	return m.doc.Clone(), nil
}

// Save replaces the stored document
func (m *DocumentStore) Save(ctx context.Context, doc *storagemodels.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveError != nil {
		return m.saveError
	}
	if doc == nil {
		return errors.NewValidationError("doc", "document is nil")
	}
	m.doc = doc.Clone()
	m.saves++
	return nil
}

// Helper methods for testing

// Document returns a copy of the stored document, or nil if nothing was saved
func (m *DocumentStore) Document() *storagemodels.Section {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.doc == nil {
		return nil
	}
	return m.doc.Clone()
}

// Saves returns the number of successful Save calls
func (m *DocumentStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Clear removes the stored document and resets counters
func (m *DocumentStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = nil
	m.saves = 0
}
