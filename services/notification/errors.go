package notification

import "fmt"

// ValidationError signals malformed create input, such as an empty recipient
// list or an empty language map.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// MissingDefaultLanguageError signals that the per-language content map has
// no default-language ("en") entry to fall back to.
type MissingDefaultLanguageError struct{}

func (e MissingDefaultLanguageError) Error() string {
	return "content map has no default language (en) entry"
}

// ReferenceNotFoundError signals that the enricher could not resolve a
// referenced entity, e.g. the counterpart of a matching offer.
type ReferenceNotFoundError struct {
	UserID int64
}

func (e ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("referenced user %d not found", e.UserID)
}

// StorageError wraps a failed transactional insert or update.
type StorageError struct {
	Err error
}

func (e StorageError) Error() string {
	return "storage failure: " + e.Err.Error()
}

func (e StorageError) Unwrap() error { return e.Err }

// NotFoundError signals a status update or read against a notification,
// message or per-user row that does not exist.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	return e.Resource + " not found"
}

// DispatchError wraps a failed enqueue to the push fan-out queue.
type DispatchError struct {
	Err error
}

func (e DispatchError) Error() string {
	return "dispatch failure: " + e.Err.Error()
}

func (e DispatchError) Unwrap() error { return e.Err }
