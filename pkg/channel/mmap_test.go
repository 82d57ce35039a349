//go:build linux || darwin

package channel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/niokit/pkg/buffer"
	"github.com/ssargent/niokit/pkg/metrics"
)

func TestMap_CopyThroughMappings(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_map_copy_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	data := randomBytes(10_000)
	in, err := Open(writeTestFile(t, tmpDir, "1.jpg", data), ModeRead)
	require.NoError(t, err)
	defer in.Close()

	out, err := Open(filepath.Join(tmpDir, "3.jpg"), ModeReadWrite|Create)
	require.NoError(t, err)
	defer out.Close()

	size, err := in.Size()
	require.NoError(t, err)

	inMapped, err := in.Map(MapReadOnly, 0, size)
	require.NoError(t, err)
	outMapped, err := out.Map(MapReadWrite, 0, size)
	require.NoError(t, err)

	assert.True(t, inMapped.IsDirect())
	assert.True(t, inMapped.IsReadOnly())
	assert.Equal(t, int(size), inMapped.Limit())

	outSize, err := out.Size()
	require.NoError(t, err)
	assert.Equal(t, size, outSize, "read-write mapping grows the file")

	dst := make([]byte, inMapped.Limit())
	require.NoError(t, inMapped.GetInto(dst))
	require.NoError(t, outMapped.Put(dst...))
	require.NoError(t, outMapped.Flush())

	got, err := os.ReadFile(out.Path())
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestMap_ReadOnlyRejectsWrites(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_map_ro_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	ch, err := Open(writeTestFile(t, tmpDir, "data.txt", []byte("abcdef")), ModeReadWrite)
	require.NoError(t, err)
	defer ch.Close()

	m, err := ch.Map(MapReadOnly, 0, 6)
	require.NoError(t, err)
	defer m.Unmap()

	assert.ErrorIs(t, m.Put('z'), buffer.ErrReadOnly)
	assert.ErrorIs(t, m.SetAt(0, 'z'), buffer.ErrReadOnly)
	assert.Equal(t, MapReadOnly, m.Mode())
	require.NoError(t, m.Flush(), "flushing a read-only mapping is a no-op")
	require.NoError(t, m.Load())

	v, err := m.At(5)
	require.NoError(t, err)
	assert.Equal(t, byte('f'), v)
}

func TestMap_UnalignedOffset(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_map_offset_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	data := randomBytes(3 * os.Getpagesize())
	ch, err := Open(writeTestFile(t, tmpDir, "data.bin", data), ModeReadWrite)
	require.NoError(t, err)
	defer ch.Close()

	offset := int64(os.Getpagesize() + 123)
	m, err := ch.Map(MapReadWrite, offset, 50)
	require.NoError(t, err)
	assert.Equal(t, offset, m.Offset())
	assert.Equal(t, 50, m.Capacity())

	got, err := m.Get(50)
	require.NoError(t, err)
	assert.Equal(t, data[offset:offset+50], got)

	require.NoError(t, m.SetAt(0, 0xAB))
	require.NoError(t, m.Flush())

	check := buffer.MustAllocate[byte](1)
	_, err = ch.ReadAt(check, offset)
	require.NoError(t, err)
	check.Flip()
	b, err := check.Next()
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), b)
}

func TestMap_Private(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_map_private_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := writeTestFile(t, tmpDir, "data.txt", []byte("original"))
	ch, err := Open(path, ModeRead)
	require.NoError(t, err)
	defer ch.Close()

	m, err := ch.Map(MapPrivate, 0, 8)
	require.NoError(t, err)
	require.NoError(t, m.Put([]byte("modified")...))
	require.NoError(t, m.Unmap())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestMap_Lifecycle(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_map_lifecycle_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	reg := prometheus.NewRegistry()
	mtr := metrics.NewMetrics(reg)

	path := writeTestFile(t, tmpDir, "data.txt", []byte("0123456789"))
	ch, err := Open(path, ModeReadWrite, WithMetrics(mtr))
	require.NoError(t, err)

	first, err := ch.Map(MapReadOnly, 0, 10)
	require.NoError(t, err)
	second, err := ch.Map(MapReadWrite, 2, 4)
	require.NoError(t, err)
	empty, err := ch.Map(MapReadOnly, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Capacity())

	active, err := testutil.GatherAndCount(reg, "niokit_mappings_active")
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	require.NoError(t, first.Unmap())
	require.NoError(t, first.Unmap(), "unmap is idempotent")
	assert.False(t, first.IsMapped())
	_, err = first.Next()
	assert.ErrorIs(t, err, buffer.ErrMappingClosed)
	assert.ErrorIs(t, first.Flush(), buffer.ErrMappingClosed)

	require.NoError(t, second.Put('X'))
	require.NoError(t, ch.Close())

	// Closing the channel releases every outstanding mapping
	assert.False(t, second.IsMapped())
	assert.ErrorIs(t, second.Put('Y'), buffer.ErrMappingClosed)
	assert.False(t, empty.IsMapped())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "01X3456789", string(got), "close flushes read-write mappings")
}

func TestMap_InvalidArguments(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_map_args_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := writeTestFile(t, tmpDir, "data.txt", []byte("abc"))

	ro, err := Open(path, ModeRead)
	require.NoError(t, err)
	defer ro.Close()

	_, err = ro.Map(MapReadOnly, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidArgument, "read-only mapping cannot extend the file")
	_, err = ro.Map(MapReadOnly, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ro.Map(MapReadOnly, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ro.Map(MapMode(9), 0, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ro.Map(MapReadWrite, 0, 1)
	assert.ErrorIs(t, err, ErrNotWritable)
}

func TestMap_FailedMapKeepsFileSize(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_map_fail_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := writeTestFile(t, tmpDir, "data.txt", []byte("abc"))
	rw, err := Open(path, ModeReadWrite)
	require.NoError(t, err)
	defer rw.Close()

	// larger than any virtual address space, so either growing the file or mmap fails
	huge := int64(math.MaxInt >> 3)
	mapped, err := rw.Map(MapReadWrite, 0, huge)
	if err == nil {
		require.NoError(t, mapped.Unmap())
		t.Skip("platform mapped an exabyte region")
	}
	assert.Nil(t, mapped)
	assert.Contains(t, err.Error(), path)

	size, err := rw.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(3), size, "failed map leaves the file at its old size")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	mapped, err = rw.Map(MapReadWrite, 0, 3)
	require.NoError(t, err)
	require.NoError(t, mapped.Load())
	require.NoError(t, mapped.Flush())
	require.NoError(t, mapped.Unmap())
	assert.ErrorIs(t, mapped.Flush(), buffer.ErrMappingClosed)
	assert.ErrorIs(t, mapped.Load(), buffer.ErrMappingClosed)
}
