package dataset

import (
	"encoding/binary"
	"unsafe"

	"github.com/tamirms/vecidx/internal/simd"
)

// isLittleEndian checks if the host is little-endian.
func isLittleEndian() bool {
	var test uint16 = 0x0001
	return *(*byte)(unsafe.Pointer(&test)) == 1
}

// view reinterprets a little-endian payload as a []T without copying.
// It returns false when the host byte order or the alignment of buf rules
// that out.
func view[T simd.Lane](buf []byte, count int) ([]T, bool) {
	if count == 0 {
		return []T{}, true
	}
	size := simd.LaneBytes[T]()
	if !isLittleEndian() || len(buf) < count*size {
		return nil, false
	}
	if uintptr(unsafe.Pointer(&buf[0]))%uintptr(size) != 0 {
		return nil, false
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), count), true
}

// decodeLanes copies count little-endian elements out of buf.
func decodeLanes[T simd.Lane](buf []byte, count int) []T {
	out := make([]T, count)
	switch simd.LaneBytes[T]() {
	case 1:
		for i := range out {
			out[i] = T(buf[i])
		}
	case 2:
		for i := range out {
			out[i] = T(binary.LittleEndian.Uint16(buf[2*i:]))
		}
	case 4:
		for i := range out {
			out[i] = T(binary.LittleEndian.Uint32(buf[4*i:]))
		}
	default:
		for i := range out {
			out[i] = T(binary.LittleEndian.Uint64(buf[8*i:]))
		}
	}
	return out
}

// encodeLanes writes keys to dst as little-endian elements.
func encodeLanes[T simd.Lane](dst []byte, keys []T) {
	switch simd.LaneBytes[T]() {
	case 1:
		for i, k := range keys {
			dst[i] = byte(k)
		}
	case 2:
		for i, k := range keys {
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(k))
		}
	case 4:
		for i, k := range keys {
			binary.LittleEndian.PutUint32(dst[4*i:], uint32(k))
		}
	default:
		for i, k := range keys {
			binary.LittleEndian.PutUint64(dst[8*i:], uint64(k))
		}
	}
}
