// Package eytzinger implements the implicit BST index: sorted positions laid
// out as a balanced binary search tree in a flat array, where node p has its
// children at 2p+1 and 2p+2.
//
// The tree shape is the complete binary tree over n nodes, filled in order.
// Every slot below n is occupied, so the array needs no holes or sentinels,
// and the nodes visited near the root share a dense prefix of the array.
package eytzinger

import (
	"time"

	"github.com/tamirms/vecidx/internal/bits"
	"github.com/tamirms/vecidx/internal/config"
	"github.com/tamirms/vecidx/internal/order"
)

// Index is an implicit BST index over a borrowed collection.
type Index[T any, P order.Offset] struct {
	coll   []T
	cmp    func(a, b T) int
	cfg    config.Config
	layout []P
}

// New borrows coll. Call Build before querying.
func New[T any, P order.Offset](coll []T, cmp func(a, b T) int, cfg config.Config) *Index[T, P] {
	return &Index[T, P]{coll: coll, cmp: cmp, cfg: cfg}
}

// Build sorts positions and lays them out in BFS order.
func (x *Index[T, P]) Build() error {
	if x.cfg.Validate {
		if err := order.CheckOffset[P](len(x.coll)); err != nil {
			return err
		}
	}
	start := time.Now()
	sorted := order.SortedPositions[T, P](x.coll, x.cmp)
	x.layout = Layout(sorted)
	x.cfg.Log().Debug("index built",
		"variant", "implicit-bst",
		"n", len(x.layout),
		"depth", x.Depth(),
		"elapsed", time.Since(start))
	return nil
}

// Layout arranges sorted into the implicit BST order. Slot p of the result
// holds the element whose in-order rank matches p's in-order rank in the
// complete binary tree of len(sorted) nodes.
func Layout[P any](sorted []P) []P {
	n := len(sorted)
	layout := make([]P, n)
	next := 0
	var fill func(p int)
	fill = func(p int) {
		if p >= n {
			return
		}
		fill(2*p + 1)
		layout[p] = sorted[next]
		next++
		fill(2*p + 2)
	}
	fill(0)
	return layout
}

// Find descends from the root: equal returns, smaller goes to 2p+1, larger
// to 2p+2, and running off the array means the key is absent.
func (x *Index[T, P]) Find(key T) (int, bool) {
	layout := x.layout
	p := 0
	for p < len(layout) {
		pos := int(layout[p])
		c := x.cmp(key, x.coll[pos])
		switch {
		case c == 0:
			return pos, true
		case c < 0:
			p = 2*p + 1
		default:
			p = 2*p + 2
		}
	}
	return 0, false
}

// Node returns the element stored at layout slot p.
func (x *Index[T, P]) Node(p int) T {
	return x.coll[x.layout[p]]
}

// Depth returns the number of levels in the tree, 0 when empty.
func (x *Index[T, P]) Depth() int {
	if len(x.layout) == 0 {
		return 0
	}
	return bits.FloorLog2(len(x.layout)) + 1
}

// Len returns the number of indexed elements.
func (x *Index[T, P]) Len() int {
	return len(x.layout)
}
