package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrDuplicate indicates a document with identical content is already stored.
	ErrDuplicate = errors.New("duplicate content")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Chunks are stored without vectors when this is the case.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSearchUnavailable indicates the keyword index is not configured.
	ErrSearchUnavailable = errors.New("search engine unavailable")

	// ErrSourcePathMissing indicates a configured source directory does not exist.
	ErrSourcePathMissing = errors.New("source path not found")
)
