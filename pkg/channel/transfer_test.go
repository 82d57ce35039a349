package channel

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/niokit/pkg/buffer"
)

// bufferedCopy is the read/flip/write/clear loop
func bufferedCopy(t *testing.T, in ReadableChannel, out WritableChannel, capacity int) {
	t.Helper()
	buf := buffer.MustAllocate[byte](capacity)
	for {
		_, err := in.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		buf.Flip()
		for buf.HasRemaining() {
			_, err := out.Write(buf)
			require.NoError(t, err)
		}
		buf.Clear()
	}
}

func transferCopy(t *testing.T, in *FileChannel, out WritableChannel) {
	t.Helper()
	size, err := in.Size()
	require.NoError(t, err)
	var pos int64
	for pos < size {
		n, err := in.TransferTo(out, pos, size-pos)
		require.NoError(t, err)
		require.Greater(t, n, int64(0))
		pos += n
	}
}

func TestCopyStrategiesAgree(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_copy_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	const capacity = 1024

	for _, size := range []int{0, 1, capacity - 1, capacity, 3*capacity + 17} {
		data := randomBytes(size)
		src := writeTestFile(t, tmpDir, "src.bin", data)

		bufferedPath := filepath.Join(tmpDir, "buffered.bin")
		transferPath := filepath.Join(tmpDir, "transfer.bin")

		in, err := Open(src, ModeRead)
		require.NoError(t, err)
		out, err := Open(bufferedPath, ModeCreate|Truncate)
		require.NoError(t, err)
		bufferedCopy(t, in, out, capacity)
		require.NoError(t, out.Close())
		require.NoError(t, in.Close())

		in, err = Open(src, ModeRead)
		require.NoError(t, err)
		out, err = Open(transferPath, ModeCreate|Truncate)
		require.NoError(t, err)
		transferCopy(t, in, out)
		require.NoError(t, out.Close())
		require.NoError(t, in.Close())

		buffered, err := os.ReadFile(bufferedPath)
		require.NoError(t, err)
		transferred, err := os.ReadFile(transferPath)
		require.NoError(t, err)

		assert.Equal(t, data, buffered, "size %d", size)
		assert.Equal(t, buffered, transferred, "size %d", size)
	}
}

func TestTransferTo(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_transfer_to_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	src := writeTestFile(t, tmpDir, "src.txt", []byte("0123456789"))
	in, err := Open(src, ModeRead)
	require.NoError(t, err)
	defer in.Close()

	t.Run("partial range keeps source position", func(t *testing.T) {
		out, err := Open(filepath.Join(tmpDir, "range.txt"), ModeCreate|Truncate)
		require.NoError(t, err)
		defer out.Close()

		n, err := in.TransferTo(out, 3, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)

		pos, err := in.Position()
		require.NoError(t, err)
		assert.Equal(t, int64(0), pos)

		outPos, err := out.Position()
		require.NoError(t, err)
		assert.Equal(t, int64(4), outPos, "target position advances")

		data, err := os.ReadFile(out.Path())
		require.NoError(t, err)
		assert.Equal(t, "3456", string(data))
	})

	t.Run("length clipped to file end", func(t *testing.T) {
		var sink bytes.Buffer
		n, err := in.TransferTo(NewWritable(&sink), 8, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Equal(t, "89", sink.String())
	})

	t.Run("offset at end transfers nothing", func(t *testing.T) {
		var sink bytes.Buffer
		n, err := in.TransferTo(NewWritable(&sink), 10, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("staged through small chunks", func(t *testing.T) {
		small, err := Open(src, ModeRead, WithTransferChunk(3))
		require.NoError(t, err)
		defer small.Close()

		var sink bytes.Buffer
		n, err := small.TransferTo(NewWritable(&sink), 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), n)
		assert.Equal(t, "0123456789", sink.String())
	})

	t.Run("invalid arguments", func(t *testing.T) {
		var sink bytes.Buffer
		_, err := in.TransferTo(NewWritable(&sink), -1, 5)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = in.TransferTo(NewWritable(&sink), 0, -5)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		_, err = in.TransferTo(nil, 0, 5)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("read-only target", func(t *testing.T) {
		target, err := Open(src, ModeRead)
		require.NoError(t, err)
		defer target.Close()
		_, err = in.TransferTo(target, 0, 5)
		assert.ErrorIs(t, err, ErrNotWritable)
	})
}

func TestTransferFrom(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_transfer_from_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	t.Run("from file channel", func(t *testing.T) {
		data := randomBytes(5000)
		src := writeTestFile(t, tmpDir, "src.bin", data)

		in, err := Open(src, ModeRead)
		require.NoError(t, err)
		defer in.Close()
		out, err := Open(filepath.Join(tmpDir, "dst.bin"), ModeCreate|Truncate)
		require.NoError(t, err)
		defer out.Close()

		n, err := out.TransferFrom(in, 0, int64(len(data)))
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), n)

		pos, err := out.Position()
		require.NoError(t, err)
		assert.Equal(t, int64(0), pos, "destination position is unchanged")

		got, err := os.ReadFile(out.Path())
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("from stream stops at end of source", func(t *testing.T) {
		out, err := Open(filepath.Join(tmpDir, "stream.txt"), ModeCreate|Truncate, WithTransferChunk(4))
		require.NoError(t, err)
		defer out.Close()

		n, err := out.TransferFrom(NewReadable(strings.NewReader("fighting")), 0, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(8), n)

		got, err := os.ReadFile(out.Path())
		require.NoError(t, err)
		assert.Equal(t, "fighting", string(got))
	})

	t.Run("offset beyond size transfers nothing", func(t *testing.T) {
		out, err := Open(filepath.Join(tmpDir, "empty.txt"), ModeCreate|Truncate)
		require.NoError(t, err)
		defer out.Close()

		n, err := out.TransferFrom(NewReadable(strings.NewReader("abc")), 10, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("closed source", func(t *testing.T) {
		out, err := Open(filepath.Join(tmpDir, "closed.txt"), ModeCreate|Truncate)
		require.NoError(t, err)
		defer out.Close()

		src := NewReadable(strings.NewReader("abc"))
		require.NoError(t, src.Close())
		_, err = out.TransferFrom(src, 0, 3)
		assert.ErrorIs(t, err, ErrChannelClosed)
	})
}
