package dataset

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	vecerrors "github.com/tamirms/vecidx/errors"
	intbits "github.com/tamirms/vecidx/internal/bits"
	"github.com/tamirms/vecidx/internal/simd"
)

// Distribution selects how Generate derives keys from ordinals.
type Distribution uint8

const (
	// Sequential keys are 0, 1, 2, ...
	Sequential Distribution = iota

	// XXH3 keys are xxh3 hashes of the ordinal, seeded.
	XXH3

	// XXHash keys are xxHash64 hashes of the seed and ordinal.
	XXHash

	// Murmur3 keys are murmur3 64-bit hashes of the ordinal, seeded.
	Murmur3
)

// String returns the distribution name.
func (d Distribution) String() string {
	switch d {
	case Sequential:
		return "seq"
	case XXH3:
		return "xxh3"
	case XXHash:
		return "xxhash"
	case Murmur3:
		return "murmur3"
	default:
		return "unknown"
	}
}

// ParseDistribution parses a name as printed by String.
func ParseDistribution(name string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "seq", "sequential":
		return Sequential, nil
	case "xxh3":
		return XXH3, nil
	case "xxhash":
		return XXHash, nil
	case "murmur3":
		return Murmur3, nil
	}
	return 0, fmt.Errorf("%q: %w", name, vecerrors.ErrUnknownDistribution)
}

// domain returns the number of distinct values of T, or 0 for 64-bit T.
func domain[T simd.Lane]() uint64 {
	return uint64(^T(0)) + 1
}

// Generate returns up to count sorted, distinct keys. Hashed distributions
// truncate each hash to the width of T and drop collisions, so narrow key
// types may come back with fewer than count keys. Sequential keys are capped
// at the size of T's domain.
func Generate[T simd.Lane](dist Distribution, count int, seed uint64) ([]T, error) {
	if count < 0 {
		count = 0
	}
	if d := domain[T](); d != 0 && uint64(count) > d {
		count = int(d)
	}

	var hash func(i uint64) uint64
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], seed)
	switch dist {
	case Sequential:
		keys := make([]T, count)
		for i := range keys {
			keys[i] = T(i)
		}
		return keys, nil
	case XXH3:
		hash = func(i uint64) uint64 {
			binary.LittleEndian.PutUint64(buf[8:16], i)
			return xxh3.HashSeed(buf[8:16], seed)
		}
	case XXHash:
		hash = func(i uint64) uint64 {
			binary.LittleEndian.PutUint64(buf[8:16], i)
			return xxhash.Sum64(buf[:])
		}
	case Murmur3:
		hash = func(i uint64) uint64 {
			binary.LittleEndian.PutUint64(buf[8:16], i)
			return murmur3.Sum64WithSeed(buf[8:16], uint32(seed))
		}
	default:
		return nil, fmt.Errorf("distribution %d: %w", uint8(dist), vecerrors.ErrUnknownDistribution)
	}

	keys := make([]T, count)
	for i := range keys {
		keys[i] = T(hash(uint64(i)))
	}
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

// Queries draws count lookup keys for sorted keys: hits picked uniformly
// from keys, and with probability missRate a key absent from keys. When
// keys cover T's whole domain no miss exists and every query is a hit.
func Queries[T simd.Lane](keys []T, count int, missRate float64, seed uint64) []T {
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	full := domain[T]() != 0 && uint64(len(keys)) >= domain[T]()
	out := make([]T, 0, count)
	for len(out) < count {
		if len(keys) == 0 {
			out = append(out, T(rng.Uint64()))
			continue
		}
		if !full && rng.Float64() < missRate {
			if miss, ok := drawMiss(keys, rng); ok {
				out = append(out, miss)
				continue
			}
		}
		out = append(out, keys[intbits.FastRange64(rng.Uint64(), uint64(len(keys)))])
	}
	return out
}

// drawMiss tries a bounded number of random values for one not in keys.
func drawMiss[T simd.Lane](keys []T, rng *rand.Rand) (T, bool) {
	for range 64 {
		v := T(rng.Uint64())
		if _, found := slices.BinarySearch(keys, v); !found {
			return v, true
		}
	}
	return 0, false
}

// Shuffle returns a shuffled copy of keys.
func Shuffle[T any](keys []T, seed uint64) []T {
	out := slices.Clone(keys)
	rng := rand.New(rand.NewPCG(seed, ^seed))
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
