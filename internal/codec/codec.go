// Package codec implements the Codec[T] contract PersistentCell relies on:
// stable serialization of the in-memory state to bytes, and a defined
// default value to adopt when a store file doesn't exist yet.
package codec

// Codec serializes and deserializes a cell's in-memory state T. Decode must
// be the exact inverse of Encode for every value Encode can produce
// (round-trip), so PersistentCell can rely on write-then-read consistency.
type Codec[T any] interface {
	Encode(value T) ([]byte, error)
	Decode(data []byte) (T, error)
	// Default is the value a cell adopts when its backing file is missing,
	// empty, or fails to decode.
	Default() T
}
