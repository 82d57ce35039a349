package buffer

import (
	"fmt"
)

const noMark = -1

// Guard reports whether the storage behind a view is still accessible.
// Mapped buffers install one so that access after unmapping fails cleanly.
type Guard interface {
	Valid() error
}

// Buffer is a fixed-capacity store of T with mark, position and limit cursors
type Buffer[T any] struct {
	data     []T
	mark     int
	position int
	limit    int
	direct   bool
	readOnly bool
	guard    Guard
}

// ByteBuffer is a buffer of bytes, the unit channels transfer
type ByteBuffer = Buffer[byte]

// CharBuffer is a buffer of characters, the unit codecs encode from and decode to
type CharBuffer = Buffer[rune]

// Allocate creates a zeroed buffer with the given capacity
func Allocate[T any](capacity int) (*Buffer[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: negative capacity %d", ErrInvalidArgument, capacity)
	}
	return &Buffer[T]{
		data:  make([]T, capacity),
		mark:  noMark,
		limit: capacity,
	}, nil
}

// MustAllocate is like Allocate but panics on a negative capacity
func MustAllocate[T any](capacity int) *Buffer[T] {
	b, err := Allocate[T](capacity)
	if err != nil {
		panic(err)
	}
	return b
}

// AllocateDirect creates a byte buffer flagged as direct.
// Go has no separate native heap, so the storage is ordinary memory; the flag
// only changes what IsDirect reports.
func AllocateDirect(capacity int) (*ByteBuffer, error) {
	b, err := Allocate[byte](capacity)
	if err != nil {
		return nil, err
	}
	b.direct = true
	return b, nil
}

// Wrap creates a buffer backed by data. Changes through either side are visible to the other.
func Wrap[T any](data []T) *Buffer[T] {
	return &Buffer[T]{
		data:  data,
		mark:  noMark,
		limit: len(data),
	}
}

// WrapString creates a character buffer holding the runes of s
func WrapString(s string) *CharBuffer {
	return Wrap([]rune(s))
}

// NewView wraps OS-owned storage such as a memory mapping.
// guard is consulted before every storage access.
func NewView(data []byte, guard Guard, readOnly bool) *ByteBuffer {
	b := Wrap(data)
	b.direct = true
	b.readOnly = readOnly
	b.guard = guard
	return b
}

// Capacity returns the fixed number of elements the buffer holds
func (b *Buffer[T]) Capacity() int {
	return len(b.data)
}

// Position returns the index of the next element to be read or written
func (b *Buffer[T]) Position() int {
	return b.position
}

// Limit returns the index of the first element that must not be read or written
func (b *Buffer[T]) Limit() int {
	return b.limit
}

// MarkValue returns the saved mark, or -1 when no mark is set
func (b *Buffer[T]) MarkValue() int {
	return b.mark
}

// SetPosition moves the position. A mark beyond the new position is discarded.
func (b *Buffer[T]) SetPosition(p int) error {
	if p < 0 || p > b.limit {
		return fmt.Errorf("%w: position %d outside [0, %d]", ErrInvalidArgument, p, b.limit)
	}
	b.position = p
	if b.mark > p {
		b.mark = noMark
	}
	return nil
}

// SetLimit moves the limit. Position and mark are pulled back when they exceed it.
func (b *Buffer[T]) SetLimit(l int) error {
	if l < 0 || l > len(b.data) {
		return fmt.Errorf("%w: limit %d outside [0, %d]", ErrInvalidArgument, l, len(b.data))
	}
	b.limit = l
	if b.position > l {
		b.position = l
	}
	if b.mark > l {
		b.mark = noMark
	}
	return nil
}

// Remaining returns the number of elements between position and limit
func (b *Buffer[T]) Remaining() int {
	return b.limit - b.position
}

// HasRemaining reports whether any element lies between position and limit
func (b *Buffer[T]) HasRemaining() bool {
	return b.position < b.limit
}

// IsDirect reports whether the storage is owned by the operating system
func (b *Buffer[T]) IsDirect() bool {
	return b.direct
}

// IsReadOnly reports whether writes to storage are rejected
func (b *Buffer[T]) IsReadOnly() bool {
	return b.readOnly
}

// Flip switches from filling to draining: limit becomes the position and position returns to zero
func (b *Buffer[T]) Flip() {
	b.limit = b.position
	b.position = 0
	b.mark = noMark
}

// Rewind sets the position to zero so the same region can be read again
func (b *Buffer[T]) Rewind() {
	b.position = 0
	b.mark = noMark
}

// Clear prepares the buffer for refilling. Storage is not zeroed.
func (b *Buffer[T]) Clear() {
	b.position = 0
	b.limit = len(b.data)
	b.mark = noMark
}

// Mark saves the current position
func (b *Buffer[T]) Mark() {
	b.mark = b.position
}

// Reset restores the position saved by Mark
func (b *Buffer[T]) Reset() error {
	if b.mark < 0 {
		return ErrInvalidMark
	}
	b.position = b.mark
	return nil
}

// Put writes data at the position and advances it.
// Nothing is written when data does not fit before the limit.
func (b *Buffer[T]) Put(data ...T) error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	if len(data) > b.limit-b.position {
		return fmt.Errorf("%w: %d elements at position %d exceed limit %d",
			ErrBufferOverflow, len(data), b.position, b.limit)
	}
	b.position += copy(b.data[b.position:], data)
	return nil
}

// PutBuffer copies the remaining elements of src into b, advancing both
func (b *Buffer[T]) PutBuffer(src *Buffer[T]) error {
	if src == b {
		return fmt.Errorf("%w: source is the destination", ErrInvalidArgument)
	}
	data, err := src.Readable()
	if err != nil {
		return err
	}
	if err := b.Put(data...); err != nil {
		return err
	}
	src.position = src.limit
	return nil
}

// Get reads n elements from the position into a new slice and advances the position
func (b *Buffer[T]) Get(n int) ([]T, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	}
	out := make([]T, n)
	if err := b.GetInto(out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetInto fills dst from the position and advances the position by len(dst)
func (b *Buffer[T]) GetInto(dst []T) error {
	if err := b.checkAccess(); err != nil {
		return err
	}
	if len(dst) > b.limit-b.position {
		return fmt.Errorf("%w: %d elements at position %d exceed limit %d",
			ErrBufferUnderflow, len(dst), b.position, b.limit)
	}
	b.position += copy(dst, b.data[b.position:b.limit])
	return nil
}

// Next reads a single element
func (b *Buffer[T]) Next() (T, error) {
	var v [1]T
	if err := b.GetInto(v[:]); err != nil {
		return v[0], err
	}
	return v[0], nil
}

// At reads the element at index i without moving any cursor
func (b *Buffer[T]) At(i int) (T, error) {
	var zero T
	if err := b.checkAccess(); err != nil {
		return zero, err
	}
	if i < 0 || i >= b.limit {
		return zero, fmt.Errorf("%w: index %d outside [0, %d)", ErrInvalidArgument, i, b.limit)
	}
	return b.data[i], nil
}

// SetAt writes v at index i without moving any cursor
func (b *Buffer[T]) SetAt(i int, v T) error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	if i < 0 || i >= b.limit {
		return fmt.Errorf("%w: index %d outside [0, %d)", ErrInvalidArgument, i, b.limit)
	}
	b.data[i] = v
	return nil
}

// Compact moves the remaining elements to the start of the buffer and prepares it for refilling after them
func (b *Buffer[T]) Compact() error {
	if err := b.checkWritable(); err != nil {
		return err
	}
	n := copy(b.data, b.data[b.position:b.limit])
	b.position = n
	b.limit = len(b.data)
	b.mark = noMark
	return nil
}

// Slice returns a buffer over the remaining elements. Storage is shared; cursors are not.
func (b *Buffer[T]) Slice() *Buffer[T] {
	return &Buffer[T]{
		data:     b.data[b.position:b.limit:b.limit],
		mark:     noMark,
		limit:    b.limit - b.position,
		direct:   b.direct,
		readOnly: b.readOnly,
		guard:    b.guard,
	}
}

// Duplicate returns a buffer sharing storage and starting with the same cursors
func (b *Buffer[T]) Duplicate() *Buffer[T] {
	d := *b
	return &d
}

// AsReadOnly returns a duplicate that rejects writes to storage
func (b *Buffer[T]) AsReadOnly() *Buffer[T] {
	d := b.Duplicate()
	d.readOnly = true
	return d
}

// Array returns the whole backing storage
func (b *Buffer[T]) Array() ([]T, error) {
	if err := b.checkWritable(); err != nil {
		return nil, err
	}
	return b.data, nil
}

// Readable returns the elements between position and limit without advancing.
// The slice aliases the buffer's storage.
func (b *Buffer[T]) Readable() ([]T, error) {
	if err := b.checkAccess(); err != nil {
		return nil, err
	}
	return b.data[b.position:b.limit], nil
}

// Writable returns the free region between position and limit for direct filling.
// Call Advance with the number of elements written.
func (b *Buffer[T]) Writable() ([]T, error) {
	if err := b.checkWritable(); err != nil {
		return nil, err
	}
	return b.data[b.position:b.limit], nil
}

// Advance moves the position forward by n after a direct read or write
func (b *Buffer[T]) Advance(n int) error {
	if n < 0 || n > b.limit-b.position {
		return fmt.Errorf("%w: advance %d with %d remaining", ErrInvalidArgument, n, b.limit-b.position)
	}
	b.position += n
	return nil
}

// String describes the cursors
func (b *Buffer[T]) String() string {
	return fmt.Sprintf("Buffer[pos=%d lim=%d cap=%d]", b.position, b.limit, len(b.data))
}

// Text returns the remaining characters of b as a string without advancing
func Text(b *CharBuffer) string {
	runes, err := b.Readable()
	if err != nil {
		return ""
	}
	return string(runes)
}

func (b *Buffer[T]) checkAccess() error {
	if b.guard != nil {
		return b.guard.Valid()
	}
	return nil
}

func (b *Buffer[T]) checkWritable() error {
	if b.readOnly {
		return ErrReadOnly
	}
	return b.checkAccess()
}
