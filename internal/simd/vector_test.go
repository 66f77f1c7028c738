package simd

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	vecerrors "github.com/tamirms/vecidx/errors"
)

func TestLanesPinnedValues(t *testing.T) {
	cases := []struct {
		w    Width
		size int
		want int
	}{
		{W128, 1, 16}, {W128, 2, 8}, {W128, 4, 4}, {W128, 8, 2},
		{W256, 1, 32}, {W256, 2, 16}, {W256, 4, 8}, {W256, 8, 4},
		{W512, 1, 64}, {W512, 2, 32}, {W512, 4, 16}, {W512, 8, 8},
	}
	for _, tc := range cases {
		if got := tc.w.Lanes(tc.size); got != tc.want {
			t.Errorf("Width(%d).Lanes(%d) = %d, want %d", tc.w, tc.size, got, tc.want)
		}
	}
}

func TestParseWidth(t *testing.T) {
	for _, b := range []int{128, 256, 512} {
		if _, err := ParseWidth(b); err != nil {
			t.Errorf("ParseWidth(%d): %v", b, err)
		}
	}
	if _, err := ParseWidth(64); !errors.Is(err, vecerrors.ErrInvalidWidth) {
		t.Errorf("ParseWidth(64) err = %v, want ErrInvalidWidth", err)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	v := NewVector[uint16](W256)
	if v.Lanes() != 16 || v.Width() != W256 {
		t.Fatalf("Lanes = %d, Width = %d", v.Lanes(), v.Width())
	}
	for i := 0; i < v.Lanes(); i++ {
		Set(&v, i, uint16(i*1000))
	}
	for i := 0; i < v.Lanes(); i++ {
		if got := Get[uint16](&v, i); got != uint16(i*1000) {
			t.Errorf("lane %d = %d", i, got)
		}
	}
}

// checkRank compares the installed kernel with the scalar kernel and with a
// direct count of pivots below key.
func checkRank[T Lane](t *testing.T, w Width, rng *rand.Rand, maxVal uint64) {
	t.Helper()
	v := NewVector[T](w)
	k := v.Lanes()

	// Ascending pivots spread over the whole lane range, including the top
	// half where signed compares would go wrong.
	prev := uint64(0)
	for i := 0; i < k; i++ {
		step := maxVal / uint64(k+1)
		p := prev + rng.Uint64N(step+1)
		if p > maxVal {
			p = maxVal
		}
		Set(&v, i, T(p))
		prev = p
	}

	keys := []uint64{0, 1, maxVal, maxVal - 1, maxVal / 2, maxVal/2 + 1}
	for i := 0; i < k; i++ {
		p := uint64(Get[T](&v, i))
		keys = append(keys, p)
		if p > 0 {
			keys = append(keys, p-1)
		}
		if p < maxVal {
			keys = append(keys, p+1)
		}
	}
	for i := 0; i < 200; i++ {
		keys = append(keys, rng.Uint64N(maxVal)+1)
	}

	for _, key := range keys {
		want := 0
		for i := 0; i < k; i++ {
			if T(key) > Get[T](&v, i) {
				want++
			}
		}
		if got := Rank(&v, T(key)); got != want {
			t.Fatalf("w=%d lanes=%d key=%d: Rank = %d, want %d", w, k, key, got, want)
		}
		if got, scalar := GreaterMask(&v, T(key)), ScalarGreaterMask(&v, T(key)); got != scalar {
			t.Fatalf("w=%d lanes=%d key=%d: mask %b, scalar %b", w, k, key, got, scalar)
		}
	}
}

func TestRankAllWidths(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 43))
	for _, w := range []Width{W128, W256, W512} {
		checkRank[uint8](t, w, rng, math.MaxUint8)
		checkRank[uint16](t, w, rng, math.MaxUint16)
		checkRank[uint32](t, w, rng, math.MaxUint32)
		checkRank[uint64](t, w, rng, math.MaxUint64)
	}
}

type userID uint32

func TestRankNamedLaneType(t *testing.T) {
	v := NewVector[userID](W128)
	for i := 0; i < v.Lanes(); i++ {
		Set(&v, i, userID((i+1)*10))
	}
	cases := []struct {
		key  userID
		want int
	}{{0, 0}, {10, 0}, {11, 1}, {40, 3}, {41, 4}, {math.MaxUint32, 4}}
	for _, tc := range cases {
		if got := Rank(&v, tc.key); got != tc.want {
			t.Errorf("Rank(%d) = %d, want %d", tc.key, got, tc.want)
		}
	}
}

func TestCapabilityReporting(t *testing.T) {
	isa := ActiveISA()
	if isa.String() == "unknown" {
		t.Fatalf("ActiveISA = %d has no name", isa)
	}
	parsed, ok := ParseISA(isa.String())
	if !ok || parsed != isa {
		t.Errorf("ParseISA(%q) = (%v, %v)", isa.String(), parsed, ok)
	}
	if !PreferredWidth().Valid() || !NativeWidth().Valid() {
		t.Errorf("PreferredWidth = %d, NativeWidth = %d", PreferredWidth(), NativeWidth())
	}
	if Accelerated(W512) {
		t.Errorf("512-bit registers report a vector kernel")
	}
	if _, ok := ParseISA("sse9"); ok {
		t.Errorf("ParseISA accepted an unknown ISA")
	}
}
