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

type closeRecorder struct {
	io.Reader
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func TestNewReadable(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader("stream data")}
	ch := NewReadable(src)
	assert.True(t, ch.IsOpen())

	buf := buffer.MustAllocate[byte](6)
	n, err := ch.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	// Full buffer
	n, err = ch.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	buf.Clear()
	n, err = ch.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	buf.Clear()
	n, err = ch.Read(buf)
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 0, n)

	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())
	assert.Equal(t, 1, src.closed)
	assert.False(t, ch.IsOpen())

	_, err = ch.Read(buf)
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestNewWritable(t *testing.T) {
	var sink bytes.Buffer
	ch := NewWritable(&sink)

	src := buffer.Wrap([]byte("abcdef"))
	require.NoError(t, src.SetLimit(4))
	n, err := ch.Write(src)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcd", sink.String())
	assert.Equal(t, 4, src.Position())

	n, err = ch.Write(src)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, ch.Close())
	_, err = ch.Write(buffer.Wrap([]byte("x")))
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestStreamAdapters(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_stream_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	data := randomBytes(70_000)
	in, err := Open(writeTestFile(t, tmpDir, "src.bin", data), ModeRead)
	require.NoError(t, err)
	defer in.Close()

	out, err := Open(filepath.Join(tmpDir, "dst.bin"), ModeCreate|Truncate)
	require.NoError(t, err)
	defer out.Close()

	n, err := io.Copy(AsWriter(out), AsReader(in))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	got, err := os.ReadFile(out.Path())
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestAsWriter_ReadOnlyChannel(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "channel_stream_ro_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	ch, err := Open(writeTestFile(t, tmpDir, "data.txt", []byte("abc")), ModeRead)
	require.NoError(t, err)
	defer ch.Close()

	n, err := AsWriter(ch).Write([]byte("xyz"))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, ErrNotWritable)
}
