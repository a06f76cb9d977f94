// Package common defines shared constants and sentinel errors used across
// client and server layers of MemoirVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrAlreadyExists = errors.New("already exists")

	// Precondition errors for authenticated API calls.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Upload session lifecycle errors.
	ErrUploadNotFound     = errors.New("upload session not found")
	ErrUploadCompleted    = errors.New("upload session already completed")
	ErrIncompleteUpload   = errors.New("upload is missing chunks")
	ErrSizeMismatch       = errors.New("assembled size does not match declared size")
	ErrInvalidCredentials = errors.New("invalid login/password")
)
