package dataset

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vecerrors "github.com/tamirms/vecidx/errors"
	"github.com/tamirms/vecidx/internal/simd"
)

func writeTemp[T uint8 | uint16 | uint32 | uint64](t *testing.T, keys []T, opts ...WriteOption) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.vds")
	require.NoError(t, Write(path, keys, opts...))
	return path
}

func TestWriteOpenRoundTrip(t *testing.T) {
	keys, err := Generate[uint32](XXH3, 10000, 7)
	require.NoError(t, err)

	for _, tc := range []struct {
		name string
		opts []WriteOption
	}{
		{"raw", nil},
		{"zstd", []WriteOption{WithZstd(0)}},
		{"zstd-level-19", []WriteOption{WithZstd(19)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTemp(t, keys, tc.opts...)

			ds, err := Open[uint32](path)
			require.NoError(t, err)
			defer func() { assert.NoError(t, ds.Close()) }()

			require.NoError(t, ds.Verify())
			assert.Equal(t, len(keys), ds.Len())
			assert.Equal(t, keys, ds.Keys())

			st := ds.Stats()
			assert.Equal(t, uint64(len(keys)), st.Count)
			assert.Equal(t, 4, st.ElemBytes)
			assert.Equal(t, tc.opts != nil, st.Compressed)
		})
	}
}

func TestRoundTripAllWidths(t *testing.T) {
	t.Run("uint8", func(t *testing.T) { roundTrip[uint8](t) })
	t.Run("uint16", func(t *testing.T) { roundTrip[uint16](t) })
	t.Run("uint32", func(t *testing.T) { roundTrip[uint32](t) })
	t.Run("uint64", func(t *testing.T) { roundTrip[uint64](t) })
}

func roundTrip[T uint8 | uint16 | uint32 | uint64](t *testing.T) {
	keys, err := Generate[T](Murmur3, 300, 3)
	require.NoError(t, err)
	path := writeTemp(t, keys)

	ds, err := Open[T](path)
	require.NoError(t, err)
	defer ds.Close()
	require.NoError(t, ds.Verify())
	assert.Equal(t, keys, ds.Keys())
}

func TestEmptyDataset(t *testing.T) {
	path := writeTemp(t, []uint64{})
	ds, err := Open[uint64](path)
	require.NoError(t, err)
	defer ds.Close()

	require.NoError(t, ds.Verify())
	assert.Equal(t, 0, ds.Len())
	assert.Empty(t, ds.Keys())
}

func TestOpenRejectsWrongWidth(t *testing.T) {
	path := writeTemp(t, []uint32{1, 2, 3})
	_, err := Open[uint64](path)
	require.ErrorIs(t, err, vecerrors.ErrElemWidthMismatch)
}

func TestOpenBytesCorruption(t *testing.T) {
	path := writeTemp(t, []uint32{10, 20, 30, 40})
	image, err := os.ReadFile(path)
	require.NoError(t, err)

	t.Run("checksum", func(t *testing.T) {
		bad := slices.Clone(image)
		bad[headerSize] ^= 0xFF
		ds, err := OpenBytes[uint32](bad)
		require.NoError(t, err)
		require.ErrorIs(t, ds.Verify(), vecerrors.ErrChecksumFailed)
	})

	t.Run("magic", func(t *testing.T) {
		bad := slices.Clone(image)
		bad[0] = 'X'
		_, err := OpenBytes[uint32](bad)
		require.ErrorIs(t, err, vecerrors.ErrInvalidMagic)
	})

	t.Run("version", func(t *testing.T) {
		bad := slices.Clone(image)
		bad[4] = 9
		_, err := OpenBytes[uint32](bad)
		require.ErrorIs(t, err, vecerrors.ErrInvalidVersion)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := OpenBytes[uint32](image[:len(image)-4])
		require.ErrorIs(t, err, vecerrors.ErrTruncatedFile)

		_, err = OpenBytes[uint32](image[:headerSize])
		require.ErrorIs(t, err, vecerrors.ErrTruncatedFile)
	})

	t.Run("count", func(t *testing.T) {
		packed, err := os.ReadFile(writeTemp(t, []uint32{10, 20, 30, 40}, WithZstd(3)))
		require.NoError(t, err)
		wide, err := os.ReadFile(writeTemp(t, []uint64{10, 20, 30, 40}))
		require.NoError(t, err)

		cases := []struct {
			name  string
			image []byte
			count uint64
			open  func([]byte) error
		}{
			{"zstd huge", packed, 1 << 61, openAs[uint32]},
			{"zstd short", packed, 3, openAs[uint32]},
			{"zstd long", packed, 5, openAs[uint32]},
			{"raw wraps", wide, 4 + 1<<61, openAs[uint64]},
			{"raw long", image, 5, openAs[uint32]},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				bad := slices.Clone(tc.image)
				binary.LittleEndian.PutUint64(bad[8:16], tc.count)
				require.NotPanics(t, func() {
					require.ErrorIs(t, tc.open(bad), vecerrors.ErrTruncatedFile)
				})
			})
		}
	})
}

func openAs[T simd.Lane](image []byte) error {
	ds, err := OpenBytes[T](image)
	if err != nil {
		return err
	}
	return ds.Close()
}

func TestVerifyAfterClose(t *testing.T) {
	path := writeTemp(t, []uint16{1, 2})
	ds, err := Open[uint16](path)
	require.NoError(t, err)
	require.NoError(t, ds.Close())
	require.NoError(t, ds.Close())

	require.ErrorIs(t, ds.Verify(), vecerrors.ErrDatasetClosed)
	assert.Nil(t, ds.Keys())
}

func TestInspect(t *testing.T) {
	path := writeTemp(t, []uint64{5, 6, 7}, WithZstd(3))
	st, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), st.Count)
	assert.Equal(t, 8, st.ElemBytes)
	assert.True(t, st.Compressed)
}

func TestHeaderPinnedBytes(t *testing.T) {
	h := header{Magic: magic, Version: version, ElemBytes: 4, Flags: flagZstd, Count: 0x0102}
	var buf [headerSize]byte
	h.encodeTo(buf[:])

	assert.Equal(t, []byte("VIDS"), buf[0:4])
	assert.Equal(t, []byte{1, 0, 4, 1, 0x02, 0x01}, buf[4:10])

	got, err := decodeHeader(buf[:])
	require.NoError(t, err)
	assert.Equal(t, h, *got)
}
