package simd

import (
	"fmt"
	"unsafe"

	vecerrors "github.com/tamirms/vecidx/errors"
	"github.com/tamirms/vecidx/internal/bits"
)

// Lane is an element type a pivot register can hold.
type Lane interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Width is a register width in bits.
type Width int

const (
	W128 Width = 128
	W256 Width = 256
	W512 Width = 512
)

// Valid reports whether w is a supported register width.
func (w Width) Valid() bool {
	return w == W128 || w == W256 || w == W512
}

// Lanes returns k, the number of elemBytes-wide lanes in a w-bit register.
func (w Width) Lanes(elemBytes int) int {
	return int(w) / 8 / elemBytes
}

func (w Width) slot() int {
	switch w {
	case W256:
		return 1
	case W512:
		return 2
	default:
		return 0
	}
}

// ParseWidth validates a register width given in bits.
func ParseWidth(bitsWidth int) (Width, error) {
	w := Width(bitsWidth)
	if !w.Valid() {
		return 0, fmt.Errorf("%d-bit registers: %w", bitsWidth, vecerrors.ErrInvalidWidth)
	}
	return w, nil
}

// LaneBytes returns sizeof(T).
func LaneBytes[T Lane]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// Vector is a pivot register: k sorted lanes of one width, held in a 512-bit
// backing store and compared as a W-bit register.
type Vector struct {
	raw     [8]uint64
	greater kernel
	lanes   int
	width   Width
}

// NewVector returns an all-zero register of width w for lanes of type T.
func NewVector[T Lane](w Width) Vector {
	size := LaneBytes[T]()
	return Vector{
		greater: kernelFor(size, w),
		lanes:   w.Lanes(size),
		width:   w,
	}
}

// Set stores val in lane i.
func Set[T Lane](v *Vector, i int, val T) {
	lanes := unsafe.Slice((*T)(unsafe.Pointer(&v.raw)), v.lanes)
	lanes[i] = val
}

// Get returns lane i.
func Get[T Lane](v *Vector, i int) T {
	lanes := unsafe.Slice((*T)(unsafe.Pointer(&v.raw)), v.lanes)
	return lanes[i]
}

// Lanes returns k.
func (v *Vector) Lanes() int {
	return v.lanes
}

// Width returns the register width.
func (v *Vector) Width() Width {
	return v.width
}

// GreaterMask broadcasts key and sets bit i for every lane with key > lane i.
func GreaterMask[T Lane](v *Vector, key T) uint64 {
	return v.greater(v, uint64(key))
}

// Rank returns the partition a key falls into: the index of the highest set
// bit of the key > pivot mask plus one, in [0, k]. With ascending pivots the
// mask is a prefix, so this is also the number of pivots below key.
func Rank[T Lane](v *Vector, key T) int {
	return bits.HighRank(v.greater(v, uint64(key)))
}
