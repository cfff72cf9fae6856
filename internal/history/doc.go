// Package history journals pack, push and setapikey runs in SQLite.
//
// Each run is one row keyed by its correlation id. The journal is advisory:
// the packaging service logs recording failures and carries on. Schema changes
// bump schemaVersion in schema.go; users clear the database to adopt them.
package history
