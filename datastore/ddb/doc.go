/*
Package ddb provides a DynamoDB implementation of the DocumentStore interface.

The whole document is stored as one item in a single-table design. Keys are
produced by macro expansion of the item's registered index map:

	indexMap := map[string]string{
	    "PK": "DOCUMENT#{Document}",  // Becomes "DOCUMENT#portals"
	    "SK": "DOCUMENT#{Document}",
	}

Item layout:

	PK         S  DOCUMENT#<name>
	SK         S  DOCUMENT#<name>
	Document   S  <name>
	EntityType S  PortalDocument
	SavedAt    S  RFC 3339 timestamp
	Body       M  the section tree as nested maps

DynamoDB maps are unordered, so sections are rebuilt with
storagemodels.FromMap, which restores ordinal keys ("0", "1", ...) to
numeric order. Loads use consistent reads.

Client is a narrow interface over *dynamodb.Client so the store can be tested
without AWS. Integration tests run with the "integration" build tag and read
AWS_ACCESS_KEY, AWS_SECRET_KEY, AWS_REGION and AWS_DDB_TABLE from the
environment or a .env file.
*/
package ddb
