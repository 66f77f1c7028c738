// Package sequence defines the ordered, forward-iterable container
// abstraction used by the generic pivot index, plus adapters for slices,
// container/list and github.com/google/btree.
package sequence

import (
	"container/list"

	"github.com/google/btree"
)

// Cursor is an immutable position in a Sequence. Advance returns a new
// cursor and leaves the receiver untouched, so cursors can be cached.
//
// Advancing exactly to one past the last element is allowed and yields an
// end cursor; Value must not be called on it.
type Cursor[T any] interface {
	Value() T
	Advance(n int) Cursor[T]
}

// Sequence is an ordered container that can only be walked forward.
type Sequence[T any] interface {
	Len() int
	Begin() Cursor[T]
}

// Slice adapts a slice. Advance is O(1).
type Slice[T any] []T

func (s Slice[T]) Len() int { return len(s) }

func (s Slice[T]) Begin() Cursor[T] { return sliceCursor[T]{s: s} }

type sliceCursor[T any] struct {
	s []T
	i int
}

func (c sliceCursor[T]) Value() T { return c.s[c.i] }

func (c sliceCursor[T]) Advance(n int) Cursor[T] {
	return sliceCursor[T]{s: c.s, i: c.i + n}
}

// List adapts a container/list whose element values are all T.
// Advance is O(n).
type List[T any] struct {
	l *list.List
}

// FromList wraps l. The list must not change while an index uses it.
func FromList[T any](l *list.List) List[T] {
	return List[T]{l: l}
}

func (s List[T]) Len() int { return s.l.Len() }

func (s List[T]) Begin() Cursor[T] { return listCursor[T]{e: s.l.Front()} }

type listCursor[T any] struct {
	e *list.Element
}

func (c listCursor[T]) Value() T { return c.e.Value.(T) }

func (c listCursor[T]) Advance(n int) Cursor[T] {
	e := c.e
	for ; n > 0 && e != nil; n-- {
		e = e.Next()
	}
	return listCursor[T]{e: e}
}

// BTree adapts a github.com/google/btree BTreeG. Items are unique under the
// tree's ordering, so a cursor is identified by its item. Advance is
// O(log N + n).
type BTree[T any] struct {
	t *btree.BTreeG[T]
}

// FromBTree wraps t. The tree must not change while an index uses it.
func FromBTree[T any](t *btree.BTreeG[T]) BTree[T] {
	return BTree[T]{t: t}
}

func (s BTree[T]) Len() int { return s.t.Len() }

func (s BTree[T]) Begin() Cursor[T] {
	item, ok := s.t.Min()
	return btreeCursor[T]{t: s.t, item: item, end: !ok}
}

type btreeCursor[T any] struct {
	t    *btree.BTreeG[T]
	item T
	end  bool
}

func (c btreeCursor[T]) Value() T { return c.item }

func (c btreeCursor[T]) Advance(n int) Cursor[T] {
	if n == 0 || c.end {
		return c
	}
	next := btreeCursor[T]{t: c.t, end: true}
	seen := 0
	c.t.AscendGreaterOrEqual(c.item, func(item T) bool {
		if seen == n {
			next.item, next.end = item, false
			return false
		}
		seen++
		return true
	})
	return next
}
