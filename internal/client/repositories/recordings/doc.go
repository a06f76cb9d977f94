// Package recordings persists Recording records in the client's local
// SQLite store, mirroring the document-store semantics the pipeline relies
// on: create with generated ID, field-scoped partial updates, delete, and a
// chapter-filtered listing ordered by creation time descending.
package recordings
