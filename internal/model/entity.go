// Package model holds the entity types of the rental marketplace.  Each
// entity carries an integer identity that is assigned by the storage
// backend on create and can be read or replaced through GetID/SetID.
// Relationships between entities are expressed with plain ids; the only
// embedded references are the Location and CancellationPolicy of a
// Property, which are deduplicated by the booking service.
package model

// Identifiable is implemented by the pointer form of every entity.  The
// storage layer is generic over T and constrains *T to this interface so
// that it can read and assign ids without reflection.
type Identifiable[T any] interface {
	*T
	GetID() int
	SetID(id int)
}

// Cloner is implemented by entities that hold reference types (slices)
// which must not be shared between a stored value and a caller's copy.
type Cloner[T any] interface {
	Clone() T
}

// Copy returns v, deep-copied when the entity implements Cloner.
func Copy[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}
