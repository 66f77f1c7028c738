//go:build goexperiment.simd && amd64

package simd

import (
	"simd/archsimd"
	"unsafe"
)

// installAccelerated swaps in the archsimd kernels the active ISA supports.
// 512-bit registers stay scalar.
func installAccelerated(isa ISA) {
	if isa == Generic || !archsimd.X86.AVX() {
		return
	}
	kernels[0][0], accelerated[0][0] = greater8x16, true
	kernels[1][0], accelerated[1][0] = greater16x8, true
	kernels[2][0], accelerated[2][0] = greater32x4, true
	kernels[3][0], accelerated[3][0] = greater64x2, true

	if isa == AVX || !archsimd.X86.AVX2() {
		return
	}
	kernels[0][1], accelerated[0][1] = greater8x32, true
	kernels[1][1], accelerated[1][1] = greater16x16, true
	kernels[2][1], accelerated[2][1] = greater32x8, true
	kernels[3][1], accelerated[3][1] = greater64x4, true
}

func greater8x16(v *Vector, key uint64) uint64 {
	p := archsimd.LoadUint8x16((*[16]uint8)(unsafe.Pointer(&v.raw)))
	return uint64(archsimd.BroadcastUint8x16(uint8(key)).Greater(p).ToBits())
}

func greater16x8(v *Vector, key uint64) uint64 {
	p := archsimd.LoadUint16x8((*[8]uint16)(unsafe.Pointer(&v.raw)))
	return uint64(archsimd.BroadcastUint16x8(uint16(key)).Greater(p).ToBits())
}

func greater32x4(v *Vector, key uint64) uint64 {
	p := archsimd.LoadUint32x4((*[4]uint32)(unsafe.Pointer(&v.raw)))
	return uint64(archsimd.BroadcastUint32x4(uint32(key)).Greater(p).ToBits())
}

func greater64x2(v *Vector, key uint64) uint64 {
	p := archsimd.LoadUint64x2((*[2]uint64)(unsafe.Pointer(&v.raw)))
	return uint64(archsimd.BroadcastUint64x2(key).Greater(p).ToBits())
}

func greater8x32(v *Vector, key uint64) uint64 {
	p := archsimd.LoadUint8x32((*[32]uint8)(unsafe.Pointer(&v.raw)))
	return uint64(archsimd.BroadcastUint8x32(uint8(key)).Greater(p).ToBits())
}

func greater16x16(v *Vector, key uint64) uint64 {
	p := archsimd.LoadUint16x16((*[16]uint16)(unsafe.Pointer(&v.raw)))
	return uint64(archsimd.BroadcastUint16x16(uint16(key)).Greater(p).ToBits())
}

func greater32x8(v *Vector, key uint64) uint64 {
	p := archsimd.LoadUint32x8((*[8]uint32)(unsafe.Pointer(&v.raw)))
	return uint64(archsimd.BroadcastUint32x8(uint32(key)).Greater(p).ToBits())
}

func greater64x4(v *Vector, key uint64) uint64 {
	p := archsimd.LoadUint64x4((*[4]uint64)(unsafe.Pointer(&v.raw)))
	return uint64(archsimd.BroadcastUint64x4(key).Greater(p).ToBits())
}
