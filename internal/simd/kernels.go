package simd

import "unsafe"

// kernel computes the key > lane mask of a register. The key is passed
// zero-extended and truncated back to the lane width inside the kernel.
type kernel func(v *Vector, key uint64) uint64

// kernels is indexed by [log2(lane bytes)][register width slot]. Entries start
// scalar; installAccelerated swaps in vector kernels the CPU supports.
var kernels = [4][3]kernel{
	{scalarGreater[uint8], scalarGreater[uint8], scalarGreater[uint8]},
	{scalarGreater[uint16], scalarGreater[uint16], scalarGreater[uint16]},
	{scalarGreater[uint32], scalarGreater[uint32], scalarGreater[uint32]},
	{scalarGreater[uint64], scalarGreater[uint64], scalarGreater[uint64]},
}

// accelerated mirrors kernels: true where a vector kernel is installed.
var accelerated [4][3]bool

func laneSlot(size int) int {
	switch size {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	default:
		return 3
	}
}

func kernelFor(size int, w Width) kernel {
	return kernels[laneSlot(size)][w.slot()]
}

// Accelerated reports whether every lane width has a vector kernel for w.
func Accelerated(w Width) bool {
	s := w.slot()
	for i := range accelerated {
		if !accelerated[i][s] {
			return false
		}
	}
	return true
}

// AcceleratedFor reports whether lanes of size bytes have a vector kernel
// for w.
func AcceleratedFor(size int, w Width) bool {
	return accelerated[laneSlot(size)][w.slot()]
}

// scalarGreater is the portable kernel: k sequential comparisons.
func scalarGreater[L Lane](v *Vector, key uint64) uint64 {
	lanes := unsafe.Slice((*L)(unsafe.Pointer(&v.raw)), v.lanes)
	k := L(key)
	var mask uint64
	for i, p := range lanes {
		if k > p {
			mask |= uint64(1) << i
		}
	}
	return mask
}

// ScalarGreaterMask runs the scalar kernel regardless of the installed one.
func ScalarGreaterMask[T Lane](v *Vector, key T) uint64 {
	return scalarGreater[T](v, uint64(key))
}
