package pivot

import (
	"slices"
	"time"

	"github.com/tamirms/vecidx/internal/config"
	"github.com/tamirms/vecidx/internal/simd"
)

// Index2 is the two-level PivotStep index. Each top-level partition carries
// its own pivot register, so a query does two register compares and then
// binary-searches a slice of about n/(k+1)^2 elements.
type Index2[T simd.Lane] struct {
	coll []T
	cfg  config.Config
	top  simd.Vector
	step int
	n    int

	// Per top-level partition: its pivot register and stride.
	subs     []simd.Vector
	subSteps []int
}

// New2 borrows coll, which must be sorted ascending.
func New2[T simd.Lane](coll []T, cfg config.Config) *Index2[T] {
	return &Index2[T]{coll: coll, cfg: cfg}
}

// Build samples the top register and one register per partition in O(k^2).
func (x *Index2[T]) Build() error {
	w, err := prepare(x.coll, &x.cfg)
	if err != nil {
		return err
	}
	start := time.Now()
	x.top = simd.NewVector[T](w)
	k := x.top.Lanes()
	x.n = len(x.coll)
	x.step = 0
	x.subs = make([]simd.Vector, k+1)
	x.subSteps = make([]int, k+1)
	if x.n > 0 {
		x.step = sample(&x.top, x.coll)
		for i := 0; i <= k; i++ {
			lo, hi := x.Partition(i)
			x.subs[i] = simd.NewVector[T](w)
			if hi > lo {
				x.subSteps[i] = sample(&x.subs[i], x.coll[lo:hi])
			}
		}
	}
	x.cfg.Log().Debug("index built",
		"variant", "pivot-step2",
		"n", x.n,
		"register_bits", int(w),
		"fanout", k,
		"step", x.step,
		"elapsed", time.Since(start))
	return nil
}

// Find narrows to a partition, then to a sub-partition, then binary-searches.
func (x *Index2[T]) Find(key T) (int, bool) {
	if x.n == 0 {
		return 0, false
	}
	i := simd.Rank(&x.top, key)
	lo, hi := x.Partition(i)
	if lo == hi {
		return 0, false
	}
	slo, shi := x.SubPartition(i, simd.Rank(&x.subs[i], key))
	j, ok := slices.BinarySearch(x.coll[slo:shi], key)
	if !ok {
		return 0, false
	}
	return slo + j, true
}

// Partition returns the half-open bounds of top-level partition i.
func (x *Index2[T]) Partition(i int) (lo, hi int) {
	k := x.top.Lanes()
	return partitionStart(i, x.step, k, x.n), partitionStart(i+1, x.step, k, x.n)
}

// SubPartition returns the absolute half-open bounds of sub-partition j of
// top-level partition i.
func (x *Index2[T]) SubPartition(i, j int) (lo, hi int) {
	plo, phi := x.Partition(i)
	m, k, s := phi-plo, x.subs[i].Lanes(), x.subSteps[i]
	return plo + partitionStart(j, s, k, m), plo + partitionStart(j+1, s, k, m)
}

// Fanout returns k.
func (x *Index2[T]) Fanout() int {
	return x.top.Lanes()
}

// At returns the i-th element; the collection is already in sorted order.
func (x *Index2[T]) At(i int) T {
	return x.coll[i]
}

// Len returns the number of indexed elements.
func (x *Index2[T]) Len() int {
	return x.n
}
