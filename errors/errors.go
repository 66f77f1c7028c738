// Package errors defines all exported error sentinels for the vecidx library.
//
// This is the single source of truth for error values. The top-level vecidx
// package, the dataset package and the internal index packages all import from
// here, so errors.Is checks work across package boundaries.
package errors

import "errors"

// Query errors
var (
	ErrNotFound = errors.New("vecidx: key not found")
)

// Build errors (only reported when validation is enabled)
var (
	ErrOffsetOverflow  = errors.New("vecidx: collection size exceeds offset width")
	ErrUnsortedInput   = errors.New("vecidx: input collection is not sorted")
	ErrUnknownStrategy = errors.New("vecidx: unknown index strategy")
	ErrInvalidWidth    = errors.New("vecidx: unsupported register width")
)

// Dataset errors
var (
	ErrInvalidMagic        = errors.New("vecidx: invalid dataset magic number")
	ErrInvalidVersion      = errors.New("vecidx: unsupported dataset version")
	ErrTruncatedFile       = errors.New("vecidx: dataset file is truncated")
	ErrChecksumFailed      = errors.New("vecidx: dataset checksum verification failed")
	ErrElemWidthMismatch   = errors.New("vecidx: dataset element width does not match requested type")
	ErrUnknownDistribution = errors.New("vecidx: unknown key distribution")
	ErrDatasetClosed       = errors.New("vecidx: dataset is closed")
)
