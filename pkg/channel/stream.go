package channel

import (
	"io"

	"github.com/ssargent/niokit/pkg/buffer"
)

// NewReadable returns a channel reading from r.
// Close closes r when it implements io.Closer.
func NewReadable(r io.Reader) ReadableChannel {
	return &readerChannel{r: r}
}

// NewWritable returns a channel writing to w.
// Close closes w when it implements io.Closer.
func NewWritable(w io.Writer) WritableChannel {
	return &writerChannel{w: w}
}

// AsReader exposes a readable channel as an io.Reader
func AsReader(ch ReadableChannel) io.Reader {
	return &channelReader{ch: ch}
}

// AsWriter exposes a writable channel as an io.Writer
func AsWriter(ch WritableChannel) io.Writer {
	return &channelWriter{ch: ch}
}

type readerChannel struct {
	r      io.Reader
	closed bool
}

func (c *readerChannel) IsOpen() bool {
	return !c.closed
}

func (c *readerChannel) Read(dst *buffer.ByteBuffer) (int, error) {
	if c.closed {
		return 0, ErrChannelClosed
	}
	p, err := dst.Writable()
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.r.Read(p)
	if n > 0 {
		_ = dst.Advance(n)
	}
	if err == io.EOF && n > 0 {
		return n, nil
	}
	return n, err
}

func (c *readerChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if closer, ok := c.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type writerChannel struct {
	w      io.Writer
	closed bool
}

func (c *writerChannel) IsOpen() bool {
	return !c.closed
}

func (c *writerChannel) Write(src *buffer.ByteBuffer) (int, error) {
	if c.closed {
		return 0, ErrChannelClosed
	}
	p, err := src.Readable()
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.w.Write(p)
	if n > 0 {
		_ = src.Advance(n)
	}
	return n, err
}

func (c *writerChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if closer, ok := c.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type channelReader struct {
	ch ReadableChannel
}

func (r *channelReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return r.ch.Read(buffer.Wrap(p))
}

type channelWriter struct {
	ch WritableChannel
}

func (w *channelWriter) Write(p []byte) (int, error) {
	buf := buffer.Wrap(p)
	for buf.HasRemaining() {
		n, err := w.ch.Write(buf)
		if err != nil {
			return buf.Position(), err
		}
		if n == 0 {
			return buf.Position(), io.ErrShortWrite
		}
	}
	return len(p), nil
}
