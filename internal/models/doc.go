// Package models contains the shared domain types: trees, tracks, tags,
// sync targets and sync results. It has no dependencies on the catalog or
// the sync engine so every other package can import it freely.
package models
