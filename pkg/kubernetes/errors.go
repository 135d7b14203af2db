package kubernetes

import "fmt"

// MissingObjectKeyError is returned when a required metadata field (name,
// namespace or uid) is absent from an object that every controller assumes
// the API server has already populated.
type MissingObjectKeyError struct {
	Key string
}

func (e *MissingObjectKeyError) Error() string {
	return fmt.Sprintf("object is missing required key: %s", e.Key)
}

// NewMissingObjectKeyError builds a MissingObjectKeyError for the given
// metadata field path (e.g. ".metadata.name").
func NewMissingObjectKeyError(key string) error {
	return &MissingObjectKeyError{Key: key}
}
