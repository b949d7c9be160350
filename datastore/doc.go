/*
Package datastore defines the persistence interface used by the portal registry.

The main interface is DocumentStore, which loads and saves one key/value
document as a storagemodels.Section tree:

	type DocumentStore interface {
	    Load(ctx context.Context) (*storagemodels.Section, error)
	    Save(ctx context.Context, doc *storagemodels.Section) error
	}

Implementations:
  - yamlfile: a YAML file on disk, the default backend
  - ddb: one DynamoDB item per document
  - sqlite: one row per document in a SQLite database, via GORM
  - mock: in-memory store with error injection for testing

Every implementation reports a never-written document with an error matching
errors.ErrNoPriorData. Manager keeps stores by name so tools can select a
backend from configuration and copy a document from one backend to another.
*/
package datastore
