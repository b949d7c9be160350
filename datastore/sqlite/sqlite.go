/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlite

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suparena/portalnetwork/errors"
	"github.com/suparena/portalnetwork/storagemodels"
)

// DocumentModel is the GORM model for a stored document.
type DocumentModel struct {
	Name    string `gorm:"primaryKey"`
	Body    string // JSON encoded section tree
	SavedAt time.Time
}

// DocumentStore implements datastore.DocumentStore on a SQLite table.
// Several named documents can share one database.
type DocumentStore struct {
	db   *gorm.DB
	name string
	now  func() time.Time
}

// Open opens (or creates) the database at path and returns a store for the named document.
func Open(path, name string) (*DocumentStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return New(db, name)
}

// New wraps an existing connection and migrates the document table.
func New(db *gorm.DB, name string) (*DocumentStore, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "document name is required")
	}
	if err := db.AutoMigrate(&DocumentModel{}); err != nil {
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &DocumentStore{db: db, name: name, now: time.Now}, nil
}

// Load reads the document row.
func (s *DocumentStore) Load(ctx context.Context) (*storagemodels.Section, error) {
	var model DocumentModel
	err := s.db.WithContext(ctx).Where(&DocumentModel{Name: s.name}).First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sqlite: document %q: %w", s.name, errors.ErrNoPriorData)
		}
		return nil, fmt.Errorf("sqlite: load %q: %w", s.name, err)
	}

	body := map[string]any{}
	if model.Body != "" {
		if err := json.Unmarshal([]byte(model.Body), &body); err != nil {
			return nil, fmt.Errorf("sqlite: decode %q: %w", s.name, err)
		}
	}
	return storagemodels.FromMap(body), nil
}

// Save upserts the document row.
func (s *DocumentStore) Save(ctx context.Context, doc *storagemodels.Section) error {
	if doc == nil {
		return errors.NewValidationError("doc", "document is nil")
	}
	body, err := json.Marshal(doc.ToMap())
	if err != nil {
		return fmt.Errorf("sqlite: encode %q: %w", s.name, err)
	}

	model := DocumentModel{Name: s.name, Body: string(body), SavedAt: s.now().UTC()}
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("sqlite: save %q: %w", s.name, err)
	}
	return nil
}

// SavedAt reports when the document was last written.
func (s *DocumentStore) SavedAt(ctx context.Context) (time.Time, error) {
	var model DocumentModel
	err := s.db.WithContext(ctx).Select("saved_at").Where(&DocumentModel{Name: s.name}).First(&model).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, errors.NewNotFoundError("document", s.name)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: %w", err)
	}
	return model.SavedAt, nil
}

// Close closes the underlying connection.
func (s *DocumentStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
