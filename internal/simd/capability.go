package simd

import (
	"os"
	"runtime"
	"strings"
)

// ISA represents a SIMD instruction set architecture.
type ISA uint8

const (
	// Generic represents pure Go implementation (no SIMD).
	Generic ISA = iota
	// AVX represents x86-64 AVX (VEX-encoded 128-bit integer compares).
	AVX
	// AVX2 represents x86-64 AVX2 (256-bit integer compares).
	AVX2
	// AVX512 represents x86-64 AVX-512 (F+BW).
	AVX512
	// NEON represents ARM64 NEON (128-bit SIMD, ASIMD).
	NEON
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case AVX:
		return "avx"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	case NEON:
		return "neon"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "avx":
		return AVX, true
	case "avx2":
		return AVX2, true
	case "avx512":
		return AVX512, true
	case "neon":
		return NEON, true
	default:
		return Generic, false
	}
}

// overrideEnv selects an ISA by name, e.g. VECIDX_SIMD=generic.
const overrideEnv = "VECIDX_SIMD"

// Package-level state, written once by the platform init.
var (
	activeISA   ISA
	hasOverride bool

	hasAVX      bool
	hasAVX2     bool
	hasAVX512F  bool
	hasAVX512BW bool
	hasASIMD    bool
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	activeISA = selectBestISA()
	if override := os.Getenv(overrideEnv); override != "" {
		if isa, ok := ParseISA(override); ok && isISAAvailable(isa) {
			hasOverride = true
			activeISA = isa
		}
	}
	installAccelerated(activeISA)
}

func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case AVX:
		return hasAVX
	case AVX2:
		return hasAVX2
	case AVX512:
		return hasAVX512F && hasAVX512BW
	case NEON:
		return hasASIMD
	default:
		return false
	}
}

func selectBestISA() ISA {
	switch runtime.GOARCH {
	case "amd64":
		switch {
		case hasAVX512F && hasAVX512BW:
			return AVX512
		case hasAVX2:
			return AVX2
		case hasAVX:
			return AVX
		}
	case "arm64":
		if hasASIMD {
			return NEON
		}
	}
	return Generic
}

// ActiveISA returns the currently active ISA.
func ActiveISA() ISA {
	return activeISA
}

// IsOverridden returns true if VECIDX_SIMD selected the active ISA.
func IsOverridden() bool {
	return hasOverride
}

// NativeWidth returns the widest register the active ISA provides.
func NativeWidth() Width {
	switch activeISA {
	case AVX512:
		return W512
	case AVX2:
		return W256
	default:
		return W128
	}
}

// PreferredWidth returns the register width pivot indexes use by default:
// the widest width with an accelerated kernel, otherwise the native width of
// the active ISA.
func PreferredWidth() Width {
	for _, w := range []Width{W512, W256, W128} {
		if Accelerated(w) {
			return w
		}
	}
	return NativeWidth()
}
