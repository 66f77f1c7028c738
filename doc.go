// Package vecidx implements static (build once, query many) exact-match
// indexes over a borrowed, fully materialized collection.
//
// Four strategies share one contract, construct -> Build -> Find:
//
//   - PermutationIndex: a position array sorted by the values it references,
//     searched by lower bound with one indirection per comparison.
//   - ImplicitBSTIndex: sorted positions laid out as a balanced BST in a flat
//     array (Eytzinger layout), children of p at 2p+1 and 2p+2.
//   - BlockedTreeIndex: an implicit BST capped at a cache-line budget, with
//     the remaining ranges kept as sorted leaf buckets.
//   - PivotStepIndex / PivotStep2Index / GenericPivotStepIndex: for already
//     sorted unsigned integer collections, one vector compare against k
//     sampled pivots picks the partition to binary-search.
//
// # Basic Usage
//
//	ids := loadSortedIDs() // []uint32, owned by the caller
//	idx := vecidx.NewPivotStep(ids)
//	if err := idx.Build(); err != nil {
//	    log.Fatal(err)
//	}
//	if pos, ok := idx.Find(40000); ok {
//	    fmt.Println(ids[pos])
//	}
//
// The offset width is a type parameter on the sort-based variants:
//
//	idx := vecidx.NewPermutation[uint32, uint8](small) // up to 256 elements
//
// # Borrowing
//
// Every index keeps a reference to the caller's collection and never copies
// or modifies it. The collection must outlive the index and must not change
// after Build; a mutated collection silently stales the index. The PivotStep
// variants require sorted input and do not check it unless WithValidation is
// given. Offsets too narrow for the collection are likewise only reported
// under WithValidation.
//
// # Thread Safety
//
// Build is single-threaded and must happen before any Find. After Build,
// Find and the inspection methods are read-only and safe for any number of
// concurrent callers.
//
// # Package Structure
//
//   - Public API: index.go (Index, constructors, New, Lookup),
//     options.go (Option, With* functions), strategy.go (Strategy),
//     sequence.go (Sequence adapters for the generic variant)
//   - Sort-based variants: internal/permutation, internal/eytzinger, internal/blocked
//   - Pivot variants: internal/pivot, vector compare in internal/simd
//   - Driver tooling: dataset (key files and generators), internal/harness, cmd/vecidx
package vecidx
