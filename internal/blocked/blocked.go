// Package blocked implements the blocked tree index: a shallow implicit BST
// whose node count is capped by a cache-line budget, with the sub-ranges left
// under its deepest level stored as sorted leaf buckets.
//
// The top tree holds 2^D - 1 positions where
//
//	D = min(floor(log2(cacheLines*64/sizeof(P))), floor(log2(n+1)))
//
// so it stays cache resident whatever n is. Each query spends D comparisons in
// the top tree and a binary search over one bucket of roughly n/2^D positions.
package blocked

import (
	"time"

	"github.com/tamirms/vecidx/internal/bits"
	"github.com/tamirms/vecidx/internal/config"
	"github.com/tamirms/vecidx/internal/order"
)

// Index is a blocked tree index over a borrowed collection.
type Index[T any, P order.Offset] struct {
	coll []T
	cmp  func(a, b T) int
	cfg  config.Config

	top []P // implicit BST, children of p at 2p+1 and 2p+2

	// Leaf buckets share one arena; bucket b is leaves[bounds[b]:bounds[b+1]].
	leaves []P
	bounds []int

	n int
}

// New borrows coll. Call Build before querying.
func New[T any, P order.Offset](coll []T, cmp func(a, b T) int, cfg config.Config) *Index[T, P] {
	return &Index[T, P]{coll: coll, cmp: cmp, cfg: cfg, bounds: []int{0, 0}}
}

// TopBudget returns the maximum number of top tree nodes for offset type P
// under the given cache-line budget.
func TopBudget[P order.Offset](cacheLines int) int {
	if cacheLines <= 0 {
		cacheLines = config.DefaultCacheLines
	}
	return cacheLines * config.CacheLineSize / order.OffsetBytes[P]()
}

// TopDepth returns D for n elements and the given node budget.
func TopDepth(n, budget int) int {
	return min(bits.FloorLog2(budget), bits.FloorLog2(n+1))
}

// Build sorts positions, fills the top tree and cuts the leaf buckets.
func (x *Index[T, P]) Build() error {
	if x.cfg.Validate {
		if err := order.CheckOffset[P](len(x.coll)); err != nil {
			return err
		}
	}
	start := time.Now()
	sorted := order.SortedPositions[T, P](x.coll, x.cmp)
	n := len(sorted)

	depth := TopDepth(n, TopBudget[P](x.cfg.CacheLines))
	nodes := 1<<depth - 1

	top := make([]P, nodes)
	leaves := make([]P, 0, n-nodes)
	bounds := make([]int, 0, nodes+2)

	// Depth is capped at floor(log2(n+1)), so every top node has a non-empty
	// range. Leaves are reached left to right, matching bucket order.
	var fill func(p, lo, hi int)
	fill = func(p, lo, hi int) {
		if p >= nodes {
			bounds = append(bounds, len(leaves))
			leaves = append(leaves, sorted[lo:hi]...)
			return
		}
		mid := lo + (hi-lo)/2
		top[p] = sorted[mid]
		fill(2*p+1, lo, mid)
		fill(2*p+2, mid+1, hi)
	}
	fill(0, 0, n)
	bounds = append(bounds, len(leaves))

	x.top, x.leaves, x.bounds, x.n = top, leaves, bounds, n
	x.cfg.Log().Debug("index built",
		"variant", "blocked-tree",
		"n", n,
		"top_depth", depth,
		"top_bytes", nodes*order.OffsetBytes[P](),
		"buckets", x.Buckets(),
		"elapsed", time.Since(start))
	return nil
}

// Find descends the top tree and finishes with a lower bound in the bucket
// the descent ends on.
func (x *Index[T, P]) Find(key T) (int, bool) {
	top := x.top
	p := 0
	for p < len(top) {
		pos := int(top[p])
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
	bucket := x.Bucket(p - len(top))
	slot, ok := order.LowerBound(x.coll, bucket, key, x.cmp)
	if !ok {
		return 0, false
	}
	return int(bucket[slot]), true
}

// Bucket returns the sorted positions of leaf bucket b.
func (x *Index[T, P]) Bucket(b int) []P {
	return x.leaves[x.bounds[b]:x.bounds[b+1]]
}

// Buckets returns the number of leaf buckets (2^D).
func (x *Index[T, P]) Buckets() int {
	return len(x.bounds) - 1
}

// Depth returns D, the number of top tree levels.
func (x *Index[T, P]) Depth() int {
	return bits.FloorLog2(len(x.top) + 1)
}

// TopNode returns the element stored at top tree slot p.
func (x *Index[T, P]) TopNode(p int) T {
	return x.coll[x.top[p]]
}

// Len returns the number of indexed elements.
func (x *Index[T, P]) Len() int {
	return x.n
}
