package channel

import (
	"io"

	"github.com/ssargent/niokit/pkg/buffer"
)

// ReadScatter reads into dsts in order, filling each buffer completely before
// starting the next, until all are full or the file is exhausted.
// It returns (0, io.EOF) when nothing could be read because the file is at its end.
func (c *FileChannel) ReadScatter(dsts ...*buffer.ByteBuffer) (int64, error) {
	if err := c.ensureReadable(); err != nil {
		return 0, err
	}

	iovs := make([][]byte, 0, len(dsts))
	for _, d := range dsts {
		p, err := d.Writable()
		if err != nil {
			return 0, err
		}
		iovs = append(iovs, p)
	}

	var total int64
	if n, ok, err := readv(c, iovs); ok {
		total = n
		advanceAll(dsts, n)
		c.opts.metrics.RecordChannel("readv", n, err)
		if err != nil {
			return total, c.wrap("readv", err)
		}
	}

	for _, d := range dsts {
		for d.HasRemaining() {
			n, err := c.Read(d)
			total += int64(n)
			if err == io.EOF {
				if total == 0 {
					return 0, io.EOF
				}
				return total, nil
			}
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// WriteGather writes srcs in order, draining each buffer before the next
func (c *FileChannel) WriteGather(srcs ...*buffer.ByteBuffer) (int64, error) {
	if err := c.ensureWritable(); err != nil {
		return 0, err
	}

	iovs := make([][]byte, 0, len(srcs))
	for _, s := range srcs {
		p, err := s.Readable()
		if err != nil {
			return 0, err
		}
		iovs = append(iovs, p)
	}

	var total int64
	if n, ok, err := writev(c, iovs); ok {
		total = n
		advanceAll(srcs, n)
		c.opts.metrics.RecordChannel("writev", n, err)
		if err != nil {
			return total, c.wrap("writev", err)
		}
	}

	for _, s := range srcs {
		for s.HasRemaining() {
			n, err := c.Write(s)
			total += int64(n)
			if err != nil {
				return total, err
			}
			if n == 0 {
				return total, io.ErrShortWrite
			}
		}
	}
	return total, nil
}

// advanceAll spreads n transferred bytes over bufs in order
func advanceAll(bufs []*buffer.ByteBuffer, n int64) {
	for _, b := range bufs {
		if n <= 0 {
			return
		}
		step := int64(b.Remaining())
		if step > n {
			step = n
		}
		_ = b.Advance(int(step))
		n -= step
	}
}
