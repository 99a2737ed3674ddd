package errs

import "errors"

var (
	// ErrInvalidEmbedding marks a malformed or non-finite vector coming back
	// from an embedding provider. Such a vector is never persisted.
	ErrInvalidEmbedding = errors.New("invalid embedding")
	// ErrUnconfiguredCapability marks an operation that needs an optional
	// provider which was not configured.
	ErrUnconfiguredCapability = errors.New("unconfigured capability")
	// ErrExtractionParse marks an extraction response that is not shaped as
	// a list of memory records.
	ErrExtractionParse = errors.New("extraction parse error")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
)
