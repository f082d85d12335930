// Package catalog persists the local video library in SQLite.
//
// The Store manages database connections, schema initialization, video
// upserts keyed by absolute path, tag assignment, and the PHI review
// workflow (unknown -> suspected/cleared). Listing supports the browse
// filters the CLI exposes: substring search, tag, and PHI status.
//
// The database is a long-lived catalog rather than transient state, but
// schema changes still bump the version in schema.go; users re-index
// after deleting an outdated database.
package catalog
