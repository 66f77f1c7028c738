//go:build linux

package dataset

import "golang.org/x/sys/unix"

// MADV_POPULATE_WRITE was added in Linux 5.14.
// On older kernels, madvise returns EINVAL which we ignore.
const madvPopulateWrite = 23

// adviseWillNeed asks the kernel to start reading a mapped payload in.
// Best-effort: errors are ignored.
func adviseWillNeed(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_WILLNEED)
}

// adviseSequential hints that a mapped region is read front to back once,
// as the zstd decoder does.
func adviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}

// prefaultRegion prefaults pages of a writable mapping before the payload
// is copied in.
func prefaultRegion(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, madvPopulateWrite)
}
