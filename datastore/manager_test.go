/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/portalnetwork/datastore"
	"github.com/suparena/portalnetwork/datastore/mock"
	"github.com/suparena/portalnetwork/errors"
	"github.com/suparena/portalnetwork/storagemodels"
)

func TestManager_RegisterAndGet(t *testing.T) {
	m := datastore.NewManager()
	store := mock.New()

	require.NoError(t, m.Register("yaml", store))
	assert.Error(t, m.Register("yaml", mock.New()))

	got, err := m.Get("yaml")
	require.NoError(t, err)
	assert.Same(t, store, got)

	_, err = m.Get("dynamodb")
	assert.Error(t, err)

	require.NoError(t, m.Register("sqlite", mock.New()))
	assert.Equal(t, []string{"sqlite", "yaml"}, m.Names())
}

func TestManager_Copy(t *testing.T) {
	ctx := context.Background()
	doc := storagemodels.NewSection()
	doc.CreateSection("portals").CreateSection("0").Set("portal_type", "END")

	src := mock.New().WithDocument(doc)
	dst := mock.New()

	m := datastore.NewManager()
	require.NoError(t, m.Register("src", src))
	require.NoError(t, m.Register("dst", dst))

	require.NoError(t, m.Copy(ctx, "src", "dst"))

	copied, err := dst.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.ToMap(), copied.ToMap())
}

func TestManager_CopyEmptySource(t *testing.T) {
	m := datastore.NewManager()
	require.NoError(t, m.Register("src", mock.New()))
	require.NoError(t, m.Register("dst", mock.New()))

	err := m.Copy(context.Background(), "src", "dst")
	assert.True(t, errors.IsNoPriorData(err))

	assert.Error(t, m.Copy(context.Background(), "src", "src"))
}
