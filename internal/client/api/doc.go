// Package api contains the client-side transport for the MemoirVault
// upload/processing backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the three-phase upload protocol (InitiateUpload, UploadChunk,
//     CompleteUpload), status polling, chapter compilation, auth, and a
//     health probe.
//  2. A concrete HTTP implementation (see HTTPClient) that attaches a bearer
//     token fetched fresh per call from an injected TokenProvider and maps
//     non-2xx responses to errors whose message names the failing phase.
//  3. Decoding of the status wire shape into the tagged task-state union
//     defined in the models package, so a result can only ever appear on a
//     completed task and an error message only on a failed one.
//
// # Error Handling
//
// A missing identity session surfaces as common.ErrNotAuthenticated before
// any request is made. Transport failures carry the response status text,
// e.g. "chunk upload failed: 503 Service Unavailable".
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation.
package api
