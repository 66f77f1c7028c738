//go:build !linux

package dataset

// Page advice is Linux-only; elsewhere these are no-ops.

func adviseWillNeed(data []byte) {}

func adviseSequential(data []byte) {}

func prefaultRegion(data []byte) {}
