package channel

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ssargent/niokit/pkg/buffer"
)

// TransferTo copies up to length bytes starting at offset in this channel into
// target at target's position. This channel's position is not changed.
//
// The count returned may be less than length; callers loop to completion.
// Nothing is transferred when offset is at or beyond the end of the file.
// Between two FileChannels on Linux the copy stays in the kernel.
func (c *FileChannel) TransferTo(target WritableChannel, offset, length int64) (int64, error) {
	if err := c.ensureReadable(); err != nil {
		return 0, err
	}
	if target == nil {
		return 0, fmt.Errorf("%w: nil target", ErrInvalidArgument)
	}
	if !target.IsOpen() {
		return 0, ErrChannelClosed
	}
	if offset < 0 || length < 0 {
		return 0, fmt.Errorf("%w: offset %d length %d", ErrInvalidArgument, offset, length)
	}

	size, err := c.Size()
	if err != nil {
		return 0, err
	}
	if offset >= size || length == 0 {
		return 0, nil
	}
	if length > size-offset {
		length = size - offset
	}

	if t, ok := target.(*FileChannel); ok {
		if err := t.ensureWritable(); err != nil {
			return 0, err
		}
		n, handled, err := copyFileRange(c, offset, t, -1, length)
		if handled {
			c.opts.metrics.RecordChannel("transfer", n, err)
			if err != nil {
				return n, c.wrap("transfer", err)
			}
			return n, nil
		}
		c.opts.logger.Debug("kernel copy unavailable, staging through buffer",
			zap.String("src", c.path), zap.String("dst", t.path))
	}

	n, err := c.stagedTransferTo(target, offset, length)
	c.opts.metrics.RecordChannel("transfer", n, err)
	return n, err
}

// TransferFrom copies up to length bytes from src's position into this channel
// starting at offset. This channel's position is not changed.
//
// Nothing is transferred when offset is beyond the end of the file.
// The count returned may be less than length when src is exhausted.
func (c *FileChannel) TransferFrom(src ReadableChannel, offset, length int64) (int64, error) {
	if err := c.ensureWritable(); err != nil {
		return 0, err
	}
	if src == nil {
		return 0, fmt.Errorf("%w: nil source", ErrInvalidArgument)
	}
	if !src.IsOpen() {
		return 0, ErrChannelClosed
	}
	if offset < 0 || length < 0 {
		return 0, fmt.Errorf("%w: offset %d length %d", ErrInvalidArgument, offset, length)
	}

	size, err := c.Size()
	if err != nil {
		return 0, err
	}
	if offset > size || length == 0 {
		return 0, nil
	}

	if s, ok := src.(*FileChannel); ok {
		if err := s.ensureReadable(); err != nil {
			return 0, err
		}
		n, handled, err := copyFileRange(s, -1, c, offset, length)
		if handled {
			c.opts.metrics.RecordChannel("transfer", n, err)
			if err != nil {
				return n, c.wrap("transfer", err)
			}
			return n, nil
		}
		c.opts.logger.Debug("kernel copy unavailable, staging through buffer",
			zap.String("src", s.path), zap.String("dst", c.path))
	}

	n, err := c.stagedTransferFrom(src, offset, length)
	c.opts.metrics.RecordChannel("transfer", n, err)
	return n, err
}

func (c *FileChannel) stagingBuffer(length int64) *buffer.ByteBuffer {
	size := int64(c.opts.transferChunk)
	if length < size {
		size = length
	}
	return buffer.MustAllocate[byte](int(size))
}

func (c *FileChannel) stagedTransferTo(target WritableChannel, offset, length int64) (int64, error) {
	buf := c.stagingBuffer(length)
	var written int64
	for written < length {
		buf.Clear()
		if rest := length - written; rest < int64(buf.Capacity()) {
			_ = buf.SetLimit(int(rest))
		}
		n, err := c.ReadAt(buf, offset+written)
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, err
		}
		if n == 0 {
			break
		}

		buf.Flip()
		for buf.HasRemaining() {
			w, err := target.Write(buf)
			written += int64(w)
			if err != nil {
				return written, err
			}
			if w == 0 {
				return written, io.ErrShortWrite
			}
		}
	}
	return written, nil
}

func (c *FileChannel) stagedTransferFrom(src ReadableChannel, offset, length int64) (int64, error) {
	buf := c.stagingBuffer(length)
	var written int64
	for written < length {
		buf.Clear()
		if rest := length - written; rest < int64(buf.Capacity()) {
			_ = buf.SetLimit(int(rest))
		}
		n, err := src.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return written, err
		}
		if n == 0 {
			break
		}

		buf.Flip()
		for buf.HasRemaining() {
			w, err := c.WriteAt(buf, offset+written)
			written += int64(w)
			if err != nil {
				return written, err
			}
			if w == 0 {
				return written, io.ErrShortWrite
			}
		}
	}
	return written, nil
}
