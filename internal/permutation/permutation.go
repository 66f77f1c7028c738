// Package permutation implements the permutation index: a position array
// sorted by the values it references, searched by lower bound with one
// indirection per comparison.
//
// The borrowed collection is never copied or reordered, and the offset width
// P may be much narrower than the element type.
package permutation

import (
	"time"

	"github.com/tamirms/vecidx/internal/config"
	"github.com/tamirms/vecidx/internal/order"
)

// Index is a permutation index over a borrowed collection.
//
// Thread Safety:
// - Build must complete before any Find
// - Find and At are safe for concurrent use after Build
type Index[T any, P order.Offset] struct {
	coll      []T
	cmp       func(a, b T) int
	cfg       config.Config
	positions []P
}

// New borrows coll. It does no work; call Build before querying.
func New[T any, P order.Offset](coll []T, cmp func(a, b T) int, cfg config.Config) *Index[T, P] {
	return &Index[T, P]{coll: coll, cmp: cmp, cfg: cfg}
}

// Build sorts the position array. Errors are only reported when validation
// is enabled.
func (x *Index[T, P]) Build() error {
	if x.cfg.Validate {
		if err := order.CheckOffset[P](len(x.coll)); err != nil {
			return err
		}
	}
	start := time.Now()
	x.positions = order.SortedPositions[T, P](x.coll, x.cmp)
	x.cfg.Log().Debug("index built",
		"variant", "permutation",
		"n", len(x.positions),
		"offset_bytes", order.OffsetBytes[P](),
		"elapsed", time.Since(start))
	return nil
}

// Find returns the position in the borrowed collection of an element equal
// to key.
func (x *Index[T, P]) Find(key T) (int, bool) {
	slot, ok := order.LowerBound(x.coll, x.positions, key, x.cmp)
	if !ok {
		return 0, false
	}
	return int(x.positions[slot]), true
}

// LowerBound returns the rank of the first element not less than key, in
// [0, Len()].
func (x *Index[T, P]) LowerBound(key T) int {
	slot, _ := order.LowerBound(x.coll, x.positions, key, x.cmp)
	return slot
}

// At returns the i-th element in sorted order.
func (x *Index[T, P]) At(i int) T {
	return x.coll[x.positions[i]]
}

// Positions returns the sorted permutation. The slice must not be modified.
func (x *Index[T, P]) Positions() []P {
	return x.positions
}

// Len returns the number of indexed elements.
func (x *Index[T, P]) Len() int {
	return len(x.positions)
}
