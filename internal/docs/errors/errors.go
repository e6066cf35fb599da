package errors

// Package errors provides sentinel errors for candidate document discovery.

import "errors"

var (
	// ErrFileNotFound indicates an explicitly named document does not exist or is not a regular file.
	ErrFileNotFound = errors.New("document not found")

	// ErrContentRootNotFound indicates the site has no content directory.
	ErrContentRootNotFound = errors.New("content root not found")

	// ErrWalkFailed indicates filesystem traversal of the content root failed.
	ErrWalkFailed = errors.New("content directory walk failed")
)
