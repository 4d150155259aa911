package hxfacet

import (
	"github.com/pthm/hxfacet/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// State is an alias for encoding.State.
type State = encoding.State

// NewEncoder creates a state encoder with the given key. Keys shorter than
// 32 bytes are stretched with SHA-256.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}
