package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a PATCH field was sent at all (RFC 7396):
//   - Present=false: field absent, leave unchanged
//   - Present=true, Value=nil: explicit null
//   - Present=true, Value!=nil: new value
//
// For folder_id and parent_id, null means "move to root".
type Optional[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON is only called when the key is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// OptionalString is the common case of Optional.
type OptionalString = Optional[string]
