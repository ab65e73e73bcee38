// Package corpus defines the accepted quote model and persists one corpus
// snapshot per pipeline run in SQLite.
//
// A snapshot wholesale-replaces the previous run's corpus inside a single
// transaction, so a reader never observes a half-updated corpus. Quote
// identifiers are content-derived and survive re-runs on unchanged input.
//
// Schema changes bump schemaVersion in schema.go; users clear the database
// to adopt the new schema.
package corpus
