package channel

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ssargent/niokit/pkg/buffer"
)

// FileChannel is a channel bound to an OS file
type FileChannel struct {
	file     *os.File
	path     string
	mode     Mode
	opts     options
	closed   bool
	mappings map[*mapping]struct{}
}

var (
	_ ScatteringChannel = (*FileChannel)(nil)
	_ GatheringChannel  = (*FileChannel)(nil)
	_ SeekableChannel   = (*FileChannel)(nil)
)

// Open binds a channel to the file at path.
// A failed Open leaves nothing to close.
func Open(path string, mode Mode, opts ...Option) (*FileChannel, error) {
	if mode == 0 {
		return nil, fmt.Errorf("%w: empty mode", ErrInvalidArgument)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	file, err := os.OpenFile(path, mode.flags(), o.perm)
	if err != nil {
		return nil, classifyOpen(path, err)
	}

	o.logger.Debug("channel opened", zap.String("path", path), zap.Stringer("mode", mode))

	return &FileChannel{
		file: file,
		path: path,
		mode: mode,
		opts: o,
	}, nil
}

// Path returns the file path
func (c *FileChannel) Path() string {
	return c.path
}

// Mode returns the access mode the channel was opened with
func (c *FileChannel) Mode() Mode {
	return c.mode
}

// IsOpen reports whether Close has not yet been called
func (c *FileChannel) IsOpen() bool {
	return !c.closed
}

// Read fills dst from the channel position, advancing both.
// It returns (0, io.EOF) when the file has no more data.
func (c *FileChannel) Read(dst *buffer.ByteBuffer) (int, error) {
	if err := c.ensureReadable(); err != nil {
		return 0, err
	}
	p, err := dst.Writable()
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.file.Read(p)
	if n > 0 {
		_ = dst.Advance(n)
	}
	c.opts.metrics.RecordChannel("read", int64(n), err)
	return c.readResult(n, err, "read")
}

// ReadAt fills dst from absolute offset pos. The channel position is unchanged.
func (c *FileChannel) ReadAt(dst *buffer.ByteBuffer, pos int64) (int, error) {
	if err := c.ensureReadable(); err != nil {
		return 0, err
	}
	if pos < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrInvalidArgument, pos)
	}
	p, err := dst.Writable()
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.file.ReadAt(p, pos)
	if n > 0 {
		_ = dst.Advance(n)
	}
	c.opts.metrics.RecordChannel("read", int64(n), err)
	return c.readResult(n, err, "read")
}

// Write drains src into the channel position, advancing both
func (c *FileChannel) Write(src *buffer.ByteBuffer) (int, error) {
	if err := c.ensureWritable(); err != nil {
		return 0, err
	}
	p, err := src.Readable()
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.file.Write(p)
	if n > 0 {
		_ = src.Advance(n)
	}
	c.opts.metrics.RecordChannel("write", int64(n), err)
	if err != nil {
		return n, c.wrap("write", err)
	}
	return n, nil
}

// WriteAt drains src into absolute offset pos. The channel position is unchanged.
func (c *FileChannel) WriteAt(src *buffer.ByteBuffer, pos int64) (int, error) {
	if err := c.ensureWritable(); err != nil {
		return 0, err
	}
	if pos < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrInvalidArgument, pos)
	}
	p, err := src.Readable()
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := c.file.WriteAt(p, pos)
	if n > 0 {
		_ = src.Advance(n)
	}
	c.opts.metrics.RecordChannel("write", int64(n), err)
	if err != nil {
		return n, c.wrap("write", err)
	}
	return n, nil
}

// Position returns the current read/write offset
func (c *FileChannel) Position() (int64, error) {
	if err := c.ensureOpen(); err != nil {
		return 0, err
	}
	pos, err := c.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, c.wrap("position", err)
	}
	return pos, nil
}

// SetPosition moves the read/write offset. Offsets past the end are allowed;
// reads there report io.EOF and writes extend the file.
func (c *FileChannel) SetPosition(pos int64) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	if pos < 0 {
		return fmt.Errorf("%w: negative position %d", ErrInvalidArgument, pos)
	}
	if _, err := c.file.Seek(pos, io.SeekStart); err != nil {
		return c.wrap("position", err)
	}
	return nil
}

// Size returns the current size of the file
func (c *FileChannel) Size() (int64, error) {
	if err := c.ensureOpen(); err != nil {
		return 0, err
	}
	stat, err := c.file.Stat()
	if err != nil {
		return 0, c.wrap("stat", err)
	}
	return stat.Size(), nil
}

// Truncate cuts the file to size. The position is pulled back if it lay beyond.
func (c *FileChannel) Truncate(size int64) error {
	if err := c.ensureWritable(); err != nil {
		return err
	}
	if size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidArgument, size)
	}
	if err := c.file.Truncate(size); err != nil {
		return c.wrap("truncate", err)
	}
	pos, err := c.Position()
	if err != nil {
		return err
	}
	if pos > size {
		return c.SetPosition(size)
	}
	return nil
}

// Force flushes written data to storage. With metadata false only the file
// content is guaranteed durable where the platform distinguishes the two.
func (c *FileChannel) Force(metadata bool) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	var err error
	if metadata {
		err = c.file.Sync()
	} else {
		err = fdatasync(c)
	}
	if err != nil {
		return c.wrap("sync", err)
	}
	return nil
}

// Close releases outstanding mappings and the file handle.
// Only the first call has effect. Release failures are reported, but the
// channel is closed regardless.
func (c *FileChannel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var err error
	for m := range c.mappings {
		err = multierr.Append(err, m.release(true))
	}
	if closeErr := c.file.Close(); closeErr != nil {
		err = multierr.Append(err, c.wrap("close", closeErr))
	}

	c.opts.metrics.RecordChannel("close", 0, err)
	if err != nil {
		c.opts.logger.Warn("channel close failed", zap.String("path", c.path), zap.Error(err))
		return err
	}
	c.opts.logger.Debug("channel closed", zap.String("path", c.path))
	return nil
}

func (c *FileChannel) ensureOpen() error {
	if c.closed {
		return ErrChannelClosed
	}
	return nil
}

func (c *FileChannel) ensureReadable() error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	if !c.mode.Readable() {
		return ErrNotReadable
	}
	return nil
}

func (c *FileChannel) ensureWritable() error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	if !c.mode.Writable() {
		return ErrNotWritable
	}
	return nil
}

// readResult folds io.EOF after partial progress into success
func (c *FileChannel) readResult(n int, err error, op string) (int, error) {
	if err == io.EOF {
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}
	if err != nil {
		return n, c.wrap(op, err)
	}
	return n, nil
}

func (c *FileChannel) wrap(op string, err error) error {
	return fmt.Errorf("%s %s: %w", op, c.path, err)
}

// control runs fn with the raw descriptor of the file
func (c *FileChannel) control(fn func(fd int) error) error {
	rc, err := c.file.SyscallConn()
	if err != nil {
		return err
	}
	var opErr error
	if err := rc.Control(func(fd uintptr) {
		opErr = fn(int(fd))
	}); err != nil {
		return err
	}
	return opErr
}
