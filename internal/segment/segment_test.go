package segment

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/hugealloc/internal/mmap"
)

func TestCreate(t *testing.T) {
	t.Run("small request", func(t *testing.T) {
		seg, err := Create(10, 8)
		require.NoError(t, err)
		defer func() { require.NoError(t, seg.Close()) }()

		assert.Equal(t, 10, seg.Size())
		assert.Equal(t, 8, seg.Align())
		assert.Len(t, seg.Bytes(), 10)
		assert.GreaterOrEqual(t, seg.MappedSize(), seg.Size())
		assert.Zero(t, seg.MappedSize()%seg.PageSize())

		if seg.HugePages() {
			assert.Equal(t, mmap.HugePageSize, seg.PageSize())
			assert.Equal(t, mmap.HugePageSize, seg.MappedSize())
		} else {
			assert.Equal(t, mmap.DefaultPageSize(), seg.PageSize())
			assert.Equal(t, mmap.DefaultPageSize(), seg.MappedSize())
		}
	})

	t.Run("page rounding", func(t *testing.T) {
		size := 3*mmap.DefaultPageSize() + 1

		seg, err := Create(size, 8)
		require.NoError(t, err)
		defer func() { require.NoError(t, seg.Close()) }()

		assert.GreaterOrEqual(t, seg.MappedSize(), size)
		assert.Zero(t, seg.MappedSize()%seg.PageSize())
	})

	t.Run("zero filled", func(t *testing.T) {
		seg, err := Create(4096, 8)
		require.NoError(t, err)
		defer func() { require.NoError(t, seg.Close()) }()

		for i, b := range seg.Bytes() {
			require.Zero(t, b, "byte %d not zero", i)
		}
	})
}

func TestResize(t *testing.T) {
	t.Run("same mapped size", func(t *testing.T) {
		seg, err := Create(100, 8)
		require.NoError(t, err)
		defer func() { require.NoError(t, seg.Close()) }()

		base := seg.Base()
		newSize := seg.MappedSize() // rounds to the identical mapped size

		require.True(t, seg.Resize(newSize, 16))

		assert.Equal(t, base, seg.Base(), "trivial resize must not move")
		assert.Equal(t, newSize, seg.Size())
		assert.Equal(t, 16, seg.Align())
	})

	t.Run("grow", func(t *testing.T) {
		seg, err := Create(100, 8)
		require.NoError(t, err)
		defer func() { require.NoError(t, seg.Close()) }()

		payload := seg.Bytes()
		for i := range payload {
			payload[i] = byte(i)
		}

		newSize := 3 * seg.MappedSize()

		ok := seg.Resize(newSize, 8)
		if !ok {
			if runtime.GOOS == "linux" && !seg.HugePages() {
				t.Fatal("mremap grow of a default-page mapping failed")
			}
			// Huge page pool exhausted or no mremap on this platform; the
			// registry handles this with allocate-copy-unmap.
			return
		}

		assert.Equal(t, newSize, seg.Size())
		assert.GreaterOrEqual(t, seg.MappedSize(), newSize)

		grown := seg.Bytes()
		for i := 0; i < 100; i++ {
			require.Equal(t, byte(i), grown[i], "payload lost at %d", i)
		}
	})

	t.Run("failure leaves segment unchanged", func(t *testing.T) {
		if runtime.GOOS == "linux" {
			t.Skip("remap failure is only deterministic without mremap support")
		}

		seg, err := Create(100, 8)
		require.NoError(t, err)
		defer func() { require.NoError(t, seg.Close()) }()

		base := seg.Base()
		mapped := seg.MappedSize()

		require.False(t, seg.Resize(mapped*2, 8))

		assert.Equal(t, base, seg.Base())
		assert.Equal(t, 100, seg.Size())
		assert.Equal(t, mapped, seg.MappedSize())
	})
}

func TestMappedSizeFor(t *testing.T) {
	seg, err := Create(1, 1)
	require.NoError(t, err)
	defer func() { require.NoError(t, seg.Close()) }()

	ps := seg.PageSize()

	assert.Equal(t, ps, seg.MappedSizeFor(1))
	assert.Equal(t, ps, seg.MappedSizeFor(ps))
	assert.Equal(t, 2*ps, seg.MappedSizeFor(ps+1))
}
