package models

import "errors"

// Sentinel error kinds matching the design-level error taxonomy: callers
// branch on kind with errors.Is. Only the config, models and engine packages
// wrap errors with these; errors created in the storage, cache, trie,
// docproc and extract packages carry none of them.
var (
	// ErrConfig signals missing or invalid engine configuration at construction.
	ErrConfig = errors.New("config error")
	// ErrValidation signals a document or search option failed validation.
	ErrValidation = errors.New("validation error")
	// ErrIndex signals an index-level failure: removing a document that does
	// not exist, or an invalid serialized-index shape during load.
	ErrIndex = errors.New("index error")
	// ErrStorage signals a storage adapter initialize/store/get/remove failure.
	ErrStorage = errors.New("storage error")
	// ErrCache signals a persistent cache backing failure.
	ErrCache = errors.New("cache error")
	// ErrSearch signals a scoring or traversal failure bubbled from a component.
	ErrSearch = errors.New("search error")
)

// NotFoundError wraps ErrIndex for a specific missing document id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "document not found: " + e.ID
}

func (e *NotFoundError) Unwrap() error {
	return ErrIndex
}
