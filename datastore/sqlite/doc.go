// Package sqlite stores portal documents in a SQLite database through GORM.
//
// Each document is one row of the document_models table, keyed by name, with
// the section tree encoded as JSON. Ordinal keys are restored to numeric order
// on load by storagemodels.FromMap.
package sqlite
