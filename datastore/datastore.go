/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/portalnetwork/storagemodels"
)

// DocumentStore persists a single key/value document.
//
// Load returns an error matching errors.ErrNoPriorData when nothing was ever
// saved, so callers can tell a first run apart from a damaged document.
// Save replaces the whole document.
type DocumentStore interface {
	Load(ctx context.Context) (*storagemodels.Section, error)

	Save(ctx context.Context, doc *storagemodels.Section) error
}
