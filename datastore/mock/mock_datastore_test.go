/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"testing"

	"github.com/suparena/portalnetwork/datastore"
	"github.com/suparena/portalnetwork/datastore/mock"
	"github.com/suparena/portalnetwork/errors"
	"github.com/suparena/portalnetwork/storagemodels"
)

var _ datastore.DocumentStore = (*mock.DocumentStore)(nil)

func TestMockDocumentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("BasicOperations", func(t *testing.T) {
		store := mock.New()

		_, err := store.Load(ctx)
		if !errors.IsNoPriorData(err) {
			t.Fatalf("Expected no prior data, got: %v", err)
		}

		doc := storagemodels.NewSection()
		doc.CreateSection("portals").CreateSection("0").Set("valid", true)
		if err := store.Save(ctx, doc); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		valid, ok := loaded.Section("portals").Section("0").Bool("valid")
		if !ok || !valid {
			t.Fatalf("Loaded document mismatch: %+v", loaded.ToMap())
		}
		if store.Saves() != 1 {
			t.Fatalf("Expected 1 save, got %d", store.Saves())
		}
	})

	t.Run("Isolation", func(t *testing.T) {
		store := mock.New()
		doc := storagemodels.NewSection()
		doc.Set("version", "1")
		store.Save(ctx, doc)

		doc.Set("version", "2")
		loaded, _ := store.Load(ctx)
		loaded.Set("version", "3")

		v, _ := store.Document().String("version")
		if v != "1" {
			t.Fatalf("Stored document was mutated, version = %q", v)
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		loadErr := errors.NewReadError("mock", context.DeadlineExceeded)
		saveErr := errors.NewValidationError("doc", "rejected")
		store := mock.New().WithLoadError(loadErr).WithSaveError(saveErr)

		if _, err := store.Load(ctx); err != loadErr {
			t.Fatalf("Expected load error, got: %v", err)
		}
		if err := store.Save(ctx, storagemodels.NewSection()); err != saveErr {
			t.Fatalf("Expected save error, got: %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := mock.New().WithDocument(storagemodels.NewSection())
		store.Clear()
		if store.Document() != nil || store.Saves() != 0 {
			t.Fatal("Clear should reset the store")
		}
	})
}
