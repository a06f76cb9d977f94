// Package cli provides the interactive MemoirVault command-line client.
//
// It wires configuration, the local SQLite catalog, the REST API client and
// an interactive REPL. Typical flow: log in, pick a chapter, upload audio
// recordings, and read the transcriptions once background processing lands
// them in the catalog.
//
// Key features:
//   - Register / Login / Logout
//   - Chunked audio uploads with progress reporting
//   - Chapter management and server-side chapter compilation
//   - A watch mode that uploads every audio file dropped into a folder
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
