package pivot

import (
	"fmt"
	"time"

	vecerrors "github.com/tamirms/vecidx/errors"
	"github.com/tamirms/vecidx/internal/config"
	"github.com/tamirms/vecidx/internal/sequence"
	"github.com/tamirms/vecidx/internal/simd"
)

// marker is a cached partition boundary: a cursor and its ordinal.
type marker[T any] struct {
	at  sequence.Cursor[T]
	off int
}

// GenericIndex is the one-level PivotStep index over any sorted,
// forward-iterable sequence. Build walks the sequence once and caches the
// k+2 partition boundaries; Find only walks inside the selected partition.
type GenericIndex[T simd.Lane] struct {
	seq    sequence.Sequence[T]
	cfg    config.Config
	pivots simd.Vector
	marks  []marker[T]
	n      int
}

// NewGeneric borrows seq, which must be sorted ascending.
func NewGeneric[T simd.Lane](seq sequence.Sequence[T], cfg config.Config) *GenericIndex[T] {
	return &GenericIndex[T]{seq: seq, cfg: cfg}
}

// Build makes the single forward pass.
func (x *GenericIndex[T]) Build() error {
	w, err := registerWidth(&x.cfg)
	if err != nil {
		return err
	}
	start := time.Now()
	x.pivots = simd.NewVector[T](w)
	k := x.pivots.Lanes()
	n := x.seq.Len()
	x.n = n
	x.marks = make([]marker[T], k+2)
	x.marks[k+1] = marker[T]{off: n}
	step := 0
	if n > 0 {
		if x.cfg.Validate {
			if err := checkSequenceSorted(x.seq); err != nil {
				x.n = 0
				return err
			}
		}
		step = x.walk(k, n)
	}
	x.cfg.Log().Debug("index built",
		"variant", "generic-pivot-step",
		"n", n,
		"register_bits", int(w),
		"fanout", k,
		"step", step,
		"elapsed", time.Since(start))
	return nil
}

// walk samples the pivots and records a cursor at the start of every
// partition in one forward pass.
func (x *GenericIndex[T]) walk(k, n int) (step int) {
	step = n / (k + 1)
	cur, off := x.seq.Begin(), 0
	x.marks[0] = marker[T]{at: cur, off: 0}
	if step == 0 {
		// Every pivot is the first element; partitions 1..k-1 are empty.
		first := cur.Value()
		rest := marker[T]{at: cur.Advance(1), off: 1}
		for j := 0; j < k; j++ {
			simd.Set(&x.pivots, j, first)
			x.marks[j+1] = rest
		}
		return step
	}
	for j := 0; j < k; j++ {
		pivotAt := (j + 1) * step
		cur, off = cur.Advance(pivotAt-off), pivotAt
		simd.Set(&x.pivots, j, cur.Value())
		cur, off = cur.Advance(1), off+1
		x.marks[j+1] = marker[T]{at: cur, off: off}
	}
	return step
}

// Find returns a cursor at an element equal to key.
func (x *GenericIndex[T]) Find(key T) (sequence.Cursor[T], bool) {
	at, _, ok := x.find(key)
	return at, ok
}

// Position returns the ordinal of an element equal to key.
func (x *GenericIndex[T]) Position(key T) (int, bool) {
	_, off, ok := x.find(key)
	return off, ok
}

func (x *GenericIndex[T]) find(key T) (sequence.Cursor[T], int, bool) {
	if x.n == 0 {
		return nil, 0, false
	}
	i := simd.Rank(&x.pivots, key)
	lo, end := x.marks[i], x.marks[i+1].off
	at, off := lowerBound(lo.at, lo.off, end-lo.off, key)
	if off == end || at.Value() != key {
		return nil, 0, false
	}
	return at, off, true
}

// lowerBound is the forward-iterator lower bound: O(log count) comparisons,
// O(count) cursor steps.
func lowerBound[T simd.Lane](first sequence.Cursor[T], off, count int, key T) (sequence.Cursor[T], int) {
	for count > 0 {
		half := count / 2
		mid := first.Advance(half)
		if mid.Value() < key {
			first = mid.Advance(1)
			off += half + 1
			count -= half + 1
		} else {
			count = half
		}
	}
	return first, off
}

// Partition returns the ordinal bounds of partition i.
func (x *GenericIndex[T]) Partition(i int) (lo, hi int) {
	return x.marks[i].off, x.marks[i+1].off
}

// Fanout returns k.
func (x *GenericIndex[T]) Fanout() int {
	return x.pivots.Lanes()
}

// Len returns the number of indexed elements.
func (x *GenericIndex[T]) Len() int {
	return x.n
}

// checkSequenceSorted walks seq once, comparing each value with the previous.
func checkSequenceSorted[T simd.Lane](seq sequence.Sequence[T]) error {
	n := seq.Len()
	if n == 0 {
		return nil
	}
	cur := seq.Begin()
	prev := cur.Value()
	for i := 1; i < n; i++ {
		cur = cur.Advance(1)
		v := cur.Value()
		if v < prev {
			return fmt.Errorf("element %d is less than element %d: %w", i, i-1, vecerrors.ErrUnsortedInput)
		}
		prev = v
	}
	return nil
}
