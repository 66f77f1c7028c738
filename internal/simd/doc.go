// Package simd provides the pivot comparison used by the PivotStep indexes:
// broadcast a key, compare it against a register of sorted pivots, and turn
// the lanes where key > pivot into a bitmask.
//
// # Supported Configurations
//
//   - Lane widths: 8, 16, 32 and 64 bit unsigned integers
//   - Register widths: 128, 256 and 512 bits
//
// # Kernels
//
// Built with GOEXPERIMENT=simd on amd64, 128-bit registers use simd/archsimd
// when the CPU reports AVX and 256-bit registers when it reports AVX2. Every
// other combination, including 512-bit registers, runs the scalar kernel
// (k sequential comparisons producing the same mask).
//
// Runtime CPU feature detection picks the kernels once at init. Setting
// VECIDX_SIMD=generic forces the scalar kernels.
package simd
