// Package channel moves bytes between buffers and byte-addressable resources.
//
// FileChannel binds an OS file and supports buffered reads and writes,
// scatter/gather, direct channel-to-channel transfer and memory mapping.
// Stream adapters let any io.Reader or io.Writer act as a channel and any
// channel act as a Go stream.
//
// Reads and writes may transfer fewer bytes than requested. That is not an
// error; callers loop until satisfied or until Read reports io.EOF. Channels
// never flip buffers on the caller's behalf.
//
// Channels perform no internal locking. Close is idempotent and releases the
// resource exactly once.
package channel

import (
	"github.com/ssargent/niokit/pkg/buffer"
)

// Channel is an open connection to a resource
type Channel interface {
	IsOpen() bool
	Close() error
}

// ReadableChannel reads into byte buffers.
// Read returns (0, io.EOF) once the resource is exhausted.
type ReadableChannel interface {
	Channel
	Read(dst *buffer.ByteBuffer) (int, error)
}

// WritableChannel writes from byte buffers
type WritableChannel interface {
	Channel
	Write(src *buffer.ByteBuffer) (int, error)
}

// ScatteringChannel reads into a sequence of buffers, filling each before the next
type ScatteringChannel interface {
	ReadableChannel
	ReadScatter(dsts ...*buffer.ByteBuffer) (int64, error)
}

// GatheringChannel writes from a sequence of buffers, draining each before the next
type GatheringChannel interface {
	WritableChannel
	WriteGather(srcs ...*buffer.ByteBuffer) (int64, error)
}

// SeekableChannel keeps a current position in a resource of known size
type SeekableChannel interface {
	Channel
	Position() (int64, error)
	SetPosition(pos int64) error
	Size() (int64, error)
	Truncate(size int64) error
}
