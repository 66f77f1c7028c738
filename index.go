package vecidx

import (
	"cmp"
	"fmt"

	vecerrors "github.com/tamirms/vecidx/errors"
	"github.com/tamirms/vecidx/internal/blocked"
	"github.com/tamirms/vecidx/internal/eytzinger"
	"github.com/tamirms/vecidx/internal/order"
	"github.com/tamirms/vecidx/internal/permutation"
	"github.com/tamirms/vecidx/internal/pivot"
	"github.com/tamirms/vecidx/internal/simd"
)

// Index is the contract every variant satisfies.
//
// Build must run once before any Find and must not overlap with Find.
// Find returns the position of an element equal to key in the borrowed
// collection, or false when there is none.
type Index[T any] interface {
	Build() error
	Find(key T) (int, bool)
	Len() int
}

// Offset is the set of unsigned integer types usable as stored positions.
// The chosen type must be able to represent len(coll)-1.
type Offset = order.Offset

// Lane is the set of element types the PivotStep variants can compare in a
// vector register.
type Lane = simd.Lane

// Variant types. They are aliases so the inspection methods of each variant
// stay reachable from outside the module.
type (
	PermutationIndex[T any, P Offset] = permutation.Index[T, P]
	ImplicitBSTIndex[T any, P Offset] = eytzinger.Index[T, P]
	BlockedTreeIndex[T any, P Offset] = blocked.Index[T, P]
	PivotStepIndex[T Lane]            = pivot.Index[T]
	PivotStep2Index[T Lane]           = pivot.Index2[T]
	GenericPivotStepIndex[T Lane]     = pivot.GenericIndex[T]
)

var (
	_ Index[uint32] = (*PermutationIndex[uint32, uint32])(nil)
	_ Index[uint32] = (*ImplicitBSTIndex[uint32, uint32])(nil)
	_ Index[uint32] = (*BlockedTreeIndex[uint32, uint32])(nil)
	_ Index[uint32] = (*PivotStepIndex[uint32])(nil)
	_ Index[uint32] = (*PivotStep2Index[uint32])(nil)
)

// NewPermutation borrows coll and returns an unbuilt PermutationIndex
// ordered by cmp.Compare.
func NewPermutation[T cmp.Ordered, P Offset](coll []T, opts ...Option) *PermutationIndex[T, P] {
	return permutation.New[T, P](coll, cmp.Compare[T], resolve(opts))
}

// NewPermutationFunc is like NewPermutation with a caller-supplied
// three-way comparator.
func NewPermutationFunc[T any, P Offset](coll []T, compare func(a, b T) int, opts ...Option) *PermutationIndex[T, P] {
	return permutation.New[T, P](coll, compare, resolve(opts))
}

// NewImplicitBST borrows coll and returns an unbuilt ImplicitBSTIndex.
func NewImplicitBST[T cmp.Ordered, P Offset](coll []T, opts ...Option) *ImplicitBSTIndex[T, P] {
	return eytzinger.New[T, P](coll, cmp.Compare[T], resolve(opts))
}

// NewImplicitBSTFunc is like NewImplicitBST with a caller-supplied comparator.
func NewImplicitBSTFunc[T any, P Offset](coll []T, compare func(a, b T) int, opts ...Option) *ImplicitBSTIndex[T, P] {
	return eytzinger.New[T, P](coll, compare, resolve(opts))
}

// NewBlockedTree borrows coll and returns an unbuilt BlockedTreeIndex.
func NewBlockedTree[T cmp.Ordered, P Offset](coll []T, opts ...Option) *BlockedTreeIndex[T, P] {
	return blocked.New[T, P](coll, cmp.Compare[T], resolve(opts))
}

// NewBlockedTreeFunc is like NewBlockedTree with a caller-supplied comparator.
func NewBlockedTreeFunc[T any, P Offset](coll []T, compare func(a, b T) int, opts ...Option) *BlockedTreeIndex[T, P] {
	return blocked.New[T, P](coll, compare, resolve(opts))
}

// NewPivotStep borrows a sorted coll and returns an unbuilt one-level
// PivotStepIndex.
func NewPivotStep[T Lane](coll []T, opts ...Option) *PivotStepIndex[T] {
	return pivot.New(coll, resolve(opts))
}

// NewPivotStep2 borrows a sorted coll and returns an unbuilt two-level
// PivotStep2Index.
func NewPivotStep2[T Lane](coll []T, opts ...Option) *PivotStep2Index[T] {
	return pivot.New2(coll, resolve(opts))
}

// New constructs an unbuilt index of the given strategy over coll, ordered
// by cmp.Compare. P is the offset width of the sort-based strategies and is
// ignored by the pivot strategies. The generic strategy is driven through a
// slice-backed Sequence and reports positions.
func New[T Lane, P Offset](s Strategy, coll []T, opts ...Option) (Index[T], error) {
	cfg := resolve(opts)
	switch s {
	case StrategyPermutation:
		return permutation.New[T, P](coll, cmp.Compare[T], cfg), nil
	case StrategyImplicitBST:
		return eytzinger.New[T, P](coll, cmp.Compare[T], cfg), nil
	case StrategyBlockedTree:
		return blocked.New[T, P](coll, cmp.Compare[T], cfg), nil
	case StrategyPivotStep:
		return pivot.New(coll, cfg), nil
	case StrategyPivotStep2:
		return pivot.New2(coll, cfg), nil
	case StrategyGenericPivotStep:
		return positional[T]{pivot.NewGeneric[T](SliceSequence(coll), cfg)}, nil
	default:
		return nil, fmt.Errorf("strategy %d: %w", uint8(s), vecerrors.ErrUnknownStrategy)
	}
}

// positional adapts a GenericPivotStepIndex to the position-returning
// Index contract.
type positional[T Lane] struct {
	*pivot.GenericIndex[T]
}

func (p positional[T]) Find(key T) (int, bool) {
	return p.Position(key)
}

// Lookup resolves key through idx and returns a reference to the matching
// element of coll, the collection idx was built over.
// Returns vecerrors.ErrNotFound when key is absent.
func Lookup[T any](idx Index[T], coll []T, key T) (*T, error) {
	pos, ok := idx.Find(key)
	if !ok {
		return nil, vecerrors.ErrNotFound
	}
	return &coll[pos], nil
}
