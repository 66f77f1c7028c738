package vecidx

import (
	"container/list"

	"github.com/google/btree"

	"github.com/tamirms/vecidx/internal/pivot"
	"github.com/tamirms/vecidx/internal/sequence"
)

// Sequence is an ordered, forward-iterable container of known length.
type Sequence[T any] = sequence.Sequence[T]

// Cursor is an immutable position in a Sequence. Advance returns a new
// cursor and leaves the receiver untouched.
type Cursor[T any] = sequence.Cursor[T]

// SliceSequence views a slice as a Sequence. The slice is borrowed.
func SliceSequence[T any](s []T) Sequence[T] {
	return sequence.Slice[T](s)
}

// ListSequence views a container/list whose values are all of type T as a
// Sequence. The list is borrowed.
func ListSequence[T any](l *list.List) Sequence[T] {
	return sequence.FromList[T](l)
}

// BTreeSequence views a google/btree BTreeG in ascending order as a Sequence.
// The tree is borrowed.
func BTreeSequence[T any](t *btree.BTreeG[T]) Sequence[T] {
	return sequence.FromBTree(t)
}

// NewGenericPivotStep borrows a sorted sequence and returns an unbuilt
// GenericPivotStepIndex. Its Find returns a cursor at the match, Position
// returns the ordinal.
func NewGenericPivotStep[T Lane](seq Sequence[T], opts ...Option) *GenericPivotStepIndex[T] {
	return pivot.NewGeneric(seq, resolve(opts))
}
