// Package repositories implements the document store adapter: point
// lookups, field-equality lookups, whole-record replacement, and deletes
// for the user, song, like, and batch collections.
package repositories
