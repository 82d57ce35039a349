// Package buffer provides a fixed-capacity linear container with explicit
// read/write cursors, used by niokit to move data between channels and codecs.
//
// # Cursors
//
// Every Buffer tracks four indices:
//
//	0 <= mark <= position <= limit <= capacity
//
// Capacity is the number of elements the buffer holds and is fixed at
// creation. Limit is the first element that must not be read or written.
// Position is the next element to be read or written. Mark is an optional
// saved position restored by Reset, and is -1 when unset.
//
// # Fill and drain
//
// A freshly allocated buffer is in fill mode: Put appends at position and
// advances it. Flip switches to drain mode by setting limit to the fill point
// and position back to zero, after which Get reads what was written. Clear
// returns to fill mode without zeroing storage; Rewind re-reads the drained
// region.
//
//	buf, _ := buffer.Allocate[byte](1024)
//	_ = buf.Put([]byte("abcdef")...)
//	buf.Flip()
//	data, _ := buf.Get(buf.Remaining())
//
// # Views
//
// Slice, Duplicate and AsReadOnly return buffers sharing storage with the
// original but with independent cursors. Buffers returned by channel mappings
// are direct views whose storage belongs to the operating system; each
// storage access checks the owning mapping and fails with ErrMappingClosed
// once it has been released.
//
// # Thread Safety
//
// A Buffer is not safe for concurrent mutation. Callers serialize access.
package buffer
