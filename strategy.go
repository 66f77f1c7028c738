package vecidx

import (
	"fmt"
	"strings"

	vecerrors "github.com/tamirms/vecidx/errors"
)

// Strategy identifies an index variant.
type Strategy uint8

const (
	// StrategyPermutation sorts a position array and binary-searches it.
	StrategyPermutation Strategy = iota

	// StrategyImplicitBST lays sorted positions out in Eytzinger order.
	StrategyImplicitBST

	// StrategyBlockedTree uses a cache-bounded top tree over leaf buckets.
	StrategyBlockedTree

	// StrategyPivotStep narrows with one pivot register (sorted input only).
	StrategyPivotStep

	// StrategyPivotStep2 narrows with two pivot levels (sorted input only).
	StrategyPivotStep2

	// StrategyGenericPivotStep runs the one-level pivot index through the
	// forward-only Sequence abstraction (sorted input only).
	StrategyGenericPivotStep
)

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{
		StrategyPermutation,
		StrategyImplicitBST,
		StrategyBlockedTree,
		StrategyPivotStep,
		StrategyPivotStep2,
		StrategyGenericPivotStep,
	}
}

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyPermutation:
		return "permutation"
	case StrategyImplicitBST:
		return "implicit-bst"
	case StrategyBlockedTree:
		return "blocked-tree"
	case StrategyPivotStep:
		return "pivot-step"
	case StrategyPivotStep2:
		return "pivot-step2"
	case StrategyGenericPivotStep:
		return "generic-pivot-step"
	default:
		return "unknown"
	}
}

// RequiresSorted reports whether the strategy relies on pre-sorted input
// instead of sorting internally.
func (s Strategy) RequiresSorted() bool {
	return s == StrategyPivotStep || s == StrategyPivotStep2 || s == StrategyGenericPivotStep
}

// ParseStrategy parses a strategy name as printed by String.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range Strategies() {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, vecerrors.ErrUnknownStrategy)
}
