package transfer

import (
	"fmt"
	"io"

	"github.com/ssargent/niokit/pkg/buffer"
	"github.com/ssargent/niokit/pkg/channel"
)

// Copy moves everything src yields into dst through buf and returns the
// number of bytes written.
//
// buf starts in fill mode; bytes it already holds are written first. It is
// left cleared on success.
func Copy(dst channel.WritableChannel, src channel.ReadableChannel, buf *buffer.ByteBuffer) (int64, error) {
	if buf == nil || buf.Capacity() == 0 {
		return 0, fmt.Errorf("%w: copy needs a non-empty buffer", channel.ErrInvalidArgument)
	}

	var total int64
	for {
		_, err := src.Read(buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}

		buf.Flip()
		pending := buf.Remaining()
		n, err := dst.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n == 0 && pending == buf.Capacity() {
			return total, io.ErrShortWrite
		}
		if err := buf.Compact(); err != nil {
			return total, err
		}
	}

	buf.Flip()
	for buf.HasRemaining() {
		n, err := dst.Write(buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	buf.Clear()
	return total, nil
}
