// Package config reads the portal network configuration from environment
// variables, optionally seeded from a .env file.
//
//	PORTAL_BACKEND      yaml | dynamodb | sqlite (default yaml)
//	PORTAL_DATA_FILE    YAML document path (default portal-data.yml)
//	PORTAL_SQLITE_PATH  SQLite database path (default portal-data.db)
//	PORTAL_DOCUMENT     document name for dynamodb and sqlite (default portals)
//	PORTAL_LOG_LEVEL    debug | info | warn | error (default info)
//	AWS_ACCESS_KEY, AWS_SECRET_KEY, AWS_REGION, AWS_DDB_TABLE
package config
