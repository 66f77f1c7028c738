//go:build !goexperiment.simd || !amd64

package simd

// installAccelerated is a no-op without simd/archsimd; every register width
// runs the scalar kernel.
func installAccelerated(ISA) {}
