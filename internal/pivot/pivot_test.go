package pivot

import (
	"bytes"
	"container/list"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/google/btree"

	vecerrors "github.com/tamirms/vecidx/errors"
	"github.com/tamirms/vecidx/internal/config"
	"github.com/tamirms/vecidx/internal/sequence"
	"github.com/tamirms/vecidx/internal/simd"
)

func withWidth(bitsWidth int) config.Config {
	cfg := config.Default()
	cfg.RegisterBits = bitsWidth
	return cfg
}

// sortedUnique returns n distinct sorted values with gaps, so that every odd
// value is absent.
func sortedUnique(n int) []uint32 {
	coll := make([]uint32, n)
	for i := range coll {
		coll[i] = uint32(i) * 2
	}
	return coll
}

// TestPartitionCoverage checks that the k+1 partitions tile [0, n) with no
// gaps or overlaps, for many n and every k.
func TestPartitionCoverage(t *testing.T) {
	for _, k := range []int{2, 4, 8, 16, 32, 64} {
		for n := 0; n <= 600; n++ {
			step := n / (k + 1)
			next := 0
			for i := 0; i <= k; i++ {
				lo, hi := partitionStart(i, step, k, n), partitionStart(i+1, step, k, n)
				if lo != next || hi < lo {
					t.Fatalf("k=%d n=%d: partition %d = [%d,%d), expected start %d", k, n, i, lo, hi, next)
				}
				next = hi
			}
			if next != n {
				t.Fatalf("k=%d n=%d: partitions end at %d", k, n, next)
			}
		}
	}
}

// TestPartitionHoldsItsPivot checks that partition i ends with pivot i.
func TestPartitionHoldsItsPivot(t *testing.T) {
	coll := sortedUnique(1000)
	idx := New(coll, withWidth(256))
	if err := idx.Build(); err != nil {
		t.Fatal(err)
	}
	pivots := idx.Pivots()
	for i, p := range pivots {
		_, hi := idx.Partition(i)
		if coll[hi-1] != p {
			t.Errorf("partition %d ends with %d, pivot is %d", i, coll[hi-1], p)
		}
	}
}

// TestFind40000 covers the [0..65535] scenario with 32-bit keys and a 256-bit
// register (k=8).
func TestFind40000(t *testing.T) {
	coll := make([]uint32, 65536)
	for i := range coll {
		coll[i] = uint32(i)
	}
	idx := New(coll, withWidth(256))
	if err := idx.Build(); err != nil {
		t.Fatal(err)
	}
	if idx.Fanout() != 8 {
		t.Fatalf("Fanout = %d, want 8", idx.Fanout())
	}

	i := idx.Select(40000)
	pivots := idx.Pivots()
	if i > 0 && !(pivots[i-1] < 40000) {
		t.Errorf("pivot[%d] = %d is not below 40000", i-1, pivots[i-1])
	}
	if i < len(pivots) && !(40000 <= pivots[i]) {
		t.Errorf("pivot[%d] = %d is below 40000", i, pivots[i])
	}
	lo, hi := idx.Partition(i)
	pos, ok := idx.Find(40000)
	if !ok || coll[pos] != 40000 {
		t.Fatalf("Find(40000) = (%d, %v)", pos, ok)
	}
	if pos < lo || pos >= hi {
		t.Errorf("Find(40000) = %d outside partition %d [%d,%d)", pos, i, lo, hi)
	}
}

type finder interface {
	Build() error
	Find(key uint32) (int, bool)
	Len() int
}

func variants(coll []uint32, bitsWidth int) map[string]finder {
	return map[string]finder{
		"step":    New(coll, withWidth(bitsWidth)),
		"step2":   New2(coll, withWidth(bitsWidth)),
		"generic": genericFinder{NewGeneric[uint32](sequence.Slice[uint32](coll), withWidth(bitsWidth))},
	}
}

type genericFinder struct{ *GenericIndex[uint32] }

func (g genericFinder) Find(key uint32) (int, bool) { return g.Position(key) }

func TestFindAllSizesAndWidths(t *testing.T) {
	sizes := []int{0, 1, 2, 3, 5, 8, 9, 10, 17, 80, 81, 82, 100, 1000, 4097}
	for _, w := range []int{128, 256, 512} {
		for _, n := range sizes {
			coll := sortedUnique(n)
			for name, idx := range variants(coll, w) {
				if err := idx.Build(); err != nil {
					t.Fatalf("%s w=%d n=%d: Build: %v", name, w, n, err)
				}
				for _, v := range coll {
					pos, ok := idx.Find(v)
					if !ok || coll[pos] != v {
						t.Fatalf("%s w=%d n=%d: Find(%d) = (%d, %v)", name, w, n, v, pos, ok)
					}
				}
				for k := uint32(1); k <= uint32(2*n+1); k += 2 {
					if _, ok := idx.Find(k); ok {
						t.Fatalf("%s w=%d n=%d: Find(%d) found an absent key", name, w, n, k)
					}
				}
				if _, ok := idx.Find(^uint32(0)); ok {
					t.Fatalf("%s w=%d n=%d: Find(max) found an absent key", name, w, n)
				}
			}
		}
	}
}

func TestFindWithDuplicates(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 19))
	coll := make([]uint32, 3000)
	for i := range coll {
		coll[i] = rng.Uint32N(200)
	}
	slices.Sort(coll)
	for name, idx := range variants(coll, 256) {
		if err := idx.Build(); err != nil {
			t.Fatal(err)
		}
		for _, v := range coll {
			pos, ok := idx.Find(v)
			if !ok || coll[pos] != v {
				t.Fatalf("%s: Find(%d) = (%d, %v)", name, v, pos, ok)
			}
		}
	}
}

func TestLaneWidths(t *testing.T) {
	bytesColl := make([]uint8, 200)
	for i := range bytesColl {
		bytesColl[i] = uint8(i)
	}
	b := New(bytesColl, withWidth(128))
	if err := b.Build(); err != nil {
		t.Fatal(err)
	}
	if b.Fanout() != 16 {
		t.Fatalf("uint8 fanout = %d", b.Fanout())
	}
	for _, v := range bytesColl {
		if pos, ok := b.Find(v); !ok || pos != int(v) {
			t.Fatalf("uint8 Find(%d) = (%d, %v)", v, pos, ok)
		}
	}
	if _, ok := b.Find(250); ok {
		t.Fatalf("uint8 Find(250) found an absent key")
	}

	wide := make([]uint64, 1000)
	for i := range wide {
		wide[i] = uint64(i) << 40
	}
	w := New2(wide, withWidth(512))
	if err := w.Build(); err != nil {
		t.Fatal(err)
	}
	for _, v := range wide {
		if pos, ok := w.Find(v); !ok || wide[pos] != v {
			t.Fatalf("uint64 Find(%d) = (%d, %v)", v, pos, ok)
		}
	}
	if _, ok := w.Find(1); ok {
		t.Fatalf("uint64 Find(1) found an absent key")
	}
}

// TestSubPartitionsTileTheirParent checks the two-level layout the same way
// the one-level layout is checked.
func TestSubPartitionsTileTheirParent(t *testing.T) {
	idx := New2(sortedUnique(10007), withWidth(256))
	if err := idx.Build(); err != nil {
		t.Fatal(err)
	}
	k := idx.Fanout()
	for i := 0; i <= k; i++ {
		lo, hi := idx.Partition(i)
		next := lo
		for j := 0; j <= k; j++ {
			slo, shi := idx.SubPartition(i, j)
			if slo != next || shi < slo {
				t.Fatalf("partition %d sub %d = [%d,%d), expected start %d", i, j, slo, shi, next)
			}
			next = shi
		}
		if next != hi {
			t.Fatalf("partition %d subs end at %d, want %d", i, next, hi)
		}
	}
}

func TestGenericOverListAndBTree(t *testing.T) {
	coll := sortedUnique(777)
	l := list.New()
	tr := btree.NewG[uint32](8, func(a, b uint32) bool { return a < b })
	for _, v := range coll {
		l.PushBack(v)
		tr.ReplaceOrInsert(v)
	}

	seqs := map[string]sequence.Sequence[uint32]{
		"list":  sequence.FromList[uint32](l),
		"btree": sequence.FromBTree(tr),
	}
	for name, seq := range seqs {
		idx := NewGeneric[uint32](seq, withWidth(256))
		if err := idx.Build(); err != nil {
			t.Fatal(err)
		}
		for i, v := range coll {
			at, ok := idx.Find(v)
			if !ok || at.Value() != v {
				t.Fatalf("%s: Find(%d) failed", name, v)
			}
			if pos, ok := idx.Position(v); !ok || pos != i {
				t.Fatalf("%s: Position(%d) = (%d, %v), want %d", name, v, pos, ok, i)
			}
		}
		if _, ok := idx.Find(3); ok {
			t.Fatalf("%s: Find(3) found an absent key", name)
		}
		next := 0
		for i := 0; i <= idx.Fanout(); i++ {
			lo, hi := idx.Partition(i)
			if lo != next {
				t.Fatalf("%s: partition %d starts at %d, want %d", name, i, lo, next)
			}
			next = hi
		}
		if next != len(coll) {
			t.Fatalf("%s: partitions end at %d", name, next)
		}
	}
}

// TestUnsortedInputDoesNotPanic exercises the documented precondition
// violation: results may be wrong, but queries must not crash.
func TestUnsortedInputDoesNotPanic(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	coll := make([]uint32, 2000)
	for i := range coll {
		coll[i] = rng.Uint32()
	}
	for _, idx := range variants(coll, 256) {
		if err := idx.Build(); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2000; i++ {
			_, _ = idx.Find(rng.Uint32())
			_, _ = idx.Find(coll[i])
		}
	}
}

func TestValidationRejectsUnsorted(t *testing.T) {
	cfg := withWidth(128)
	cfg.Validate = true
	coll := []uint32{1, 5, 3}
	if err := New(coll, cfg).Build(); !errors.Is(err, vecerrors.ErrUnsortedInput) {
		t.Errorf("step: err = %v", err)
	}
	if err := New2(coll, cfg).Build(); !errors.Is(err, vecerrors.ErrUnsortedInput) {
		t.Errorf("step2: err = %v", err)
	}
	if err := NewGeneric[uint32](sequence.Slice[uint32](coll), cfg).Build(); !errors.Is(err, vecerrors.ErrUnsortedInput) {
		t.Errorf("generic: err = %v", err)
	}
}

func TestInvalidRegisterWidth(t *testing.T) {
	if err := New([]uint32{1}, withWidth(100)).Build(); !errors.Is(err, vecerrors.ErrInvalidWidth) {
		t.Errorf("err = %v, want ErrInvalidWidth", err)
	}
}

func TestDefaultWidthUsesPreferred(t *testing.T) {
	idx := New([]uint32{1, 2, 3}, config.Default())
	if err := idx.Build(); err != nil {
		t.Fatal(err)
	}
	if want := simd.PreferredWidth().Lanes(4); idx.Fanout() != want {
		t.Errorf("Fanout = %d, want %d", idx.Fanout(), want)
	}
}

func TestFindBeforeBuild(t *testing.T) {
	coll := sortedUnique(10)
	for name, idx := range variants(coll, 256) {
		if _, ok := idx.Find(4); ok {
			t.Errorf("%s: unbuilt index reported a match", name)
		}
	}
}

func TestValidationWalksSequences(t *testing.T) {
	cfg := withWidth(128)
	cfg.Validate = true

	sorted := list.New()
	for _, v := range []uint32{1, 2, 2, 7, 9} {
		sorted.PushBack(v)
	}
	if err := NewGeneric[uint32](sequence.FromList[uint32](sorted), cfg).Build(); err != nil {
		t.Fatalf("sorted list with duplicates: %v", err)
	}

	unsorted := list.New()
	for _, v := range []uint32{1, 2, 5, 4, 9} {
		unsorted.PushBack(v)
	}
	idx := NewGeneric[uint32](sequence.FromList[uint32](unsorted), cfg)
	err := idx.Build()
	if !errors.Is(err, vecerrors.ErrUnsortedInput) {
		t.Fatalf("err = %v, want ErrUnsortedInput", err)
	}
	if !strings.Contains(err.Error(), "element 3") {
		t.Errorf("err = %q, want it to name element 3", err)
	}
	if _, ok := idx.Find(4); ok {
		t.Errorf("rejected index reported a match")
	}
}

func TestEmptyBuildLogs(t *testing.T) {
	var buf bytes.Buffer
	cfg := withWidth(256)
	cfg.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	empty := map[string]finder{
		"step":    New[uint32](nil, cfg),
		"step2":   New2[uint32](nil, cfg),
		"generic": genericFinder{NewGeneric[uint32](sequence.Slice[uint32](nil), cfg)},
	}
	for name, idx := range empty {
		buf.Reset()
		if err := idx.Build(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(buf.String(), `"msg":"index built"`) || !strings.Contains(buf.String(), `"n":0`) {
			t.Errorf("%s: empty build logged %q", name, buf.String())
		}
	}
}
