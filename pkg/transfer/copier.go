package transfer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ssargent/niokit/pkg/buffer"
	"github.com/ssargent/niokit/pkg/channel"
	"github.com/ssargent/niokit/pkg/metrics"
)

const (
	// DefaultBufferSize is the heap buffer capacity used by Buffered copies
	DefaultBufferSize = 1024

	// mapWindow bounds how much of a file a Mapped copy maps at once
	mapWindow = 64 << 20
)

// Options configures a Copier
type Options struct {
	Method     Method
	BufferSize int
	// TransferChunk is the staging size for Direct copies the kernel cannot take
	TransferChunk int
	// Atomic writes to a temporary file beside the destination and renames it into place
	Atomic bool
}

// Result describes a completed copy
type Result struct {
	Method   Method
	Bytes    int64
	Duration time.Duration
}

// Copier copies files between paths using one of the channel strategies
type Copier struct {
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCopier creates a copier. A nil logger discards output and nil metrics records nothing.
func NewCopier(opts Options, logger *zap.Logger, m *metrics.Metrics) *Copier {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}
	if opts.TransferChunk <= 0 {
		opts.TransferChunk = channel.DefaultTransferChunk
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Copier{
		opts:    opts,
		logger:  logger,
		metrics: m,
	}
}

// Options returns the effective options
func (c *Copier) Options() Options {
	return c.opts
}

// CopyFile copies the contents of src to dst, creating or truncating dst.
// Both channels are closed on every path.
func (c *Copier) CopyFile(src, dst string) (Result, error) {
	start := time.Now()

	in, err := channel.Open(src, channel.ModeRead, c.channelOptions()...)
	if err != nil {
		return Result{}, err
	}
	defer in.Close()

	if err := checkDistinct(src, dst); err != nil {
		return Result{}, err
	}

	target := dst
	if c.opts.Atomic {
		target = tempPath(dst)
	}

	out, err := channel.Open(target, channel.ModeReadWrite|channel.Create|channel.Truncate, c.channelOptions()...)
	if err != nil {
		return Result{}, err
	}

	n, err := c.copy(out, in)
	err = multierr.Append(err, out.Close())
	if err == nil && c.opts.Atomic {
		err = os.Rename(target, dst)
	}
	if err != nil {
		if c.opts.Atomic {
			_ = os.Remove(target)
		}
		c.logger.Warn("copy failed",
			zap.String("src", src),
			zap.String("dst", dst),
			zap.Stringer("method", c.opts.Method),
			zap.Error(err))
		return Result{}, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}

	result := Result{
		Method:   c.opts.Method,
		Bytes:    n,
		Duration: time.Since(start),
	}
	c.metrics.RecordCopy(result.Method.String(), result.Bytes, result.Duration)
	c.logger.Info("file copied",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Stringer("method", result.Method),
		zap.Int64("bytes", result.Bytes),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// ScatterCopy copies src to dst by scatter-reading into buffers of the given
// sizes and gather-writing them back out. It returns how many bytes each
// buffer carried in total along with the byte count.
func (c *Copier) ScatterCopy(src, dst string, sizes []int) ([]int, int64, error) {
	if len(sizes) == 0 {
		return nil, 0, fmt.Errorf("%w: no buffer sizes", channel.ErrInvalidArgument)
	}
	bufs := make([]*buffer.ByteBuffer, len(sizes))
	for i, size := range sizes {
		b, err := buffer.Allocate[byte](size)
		if err != nil {
			return nil, 0, err
		}
		bufs[i] = b
	}

	in, err := channel.Open(src, channel.ModeRead, c.channelOptions()...)
	if err != nil {
		return nil, 0, err
	}
	defer in.Close()

	if err := checkDistinct(src, dst); err != nil {
		return nil, 0, err
	}

	out, err := channel.Open(dst, channel.ModeCreate|channel.Truncate, c.channelOptions()...)
	if err != nil {
		return nil, 0, err
	}

	counts := make([]int, len(bufs))
	var total int64
	copyErr := func() error {
		for {
			n, err := in.ReadScatter(bufs...)
			if err != nil {
				return ignoreEOF(err)
			}
			if n == 0 {
				return nil
			}
			for i, b := range bufs {
				b.Flip()
				counts[i] += b.Remaining()
			}
			for remaining(bufs) > 0 {
				written, err := out.WriteGather(bufs...)
				total += written
				if err != nil {
					return err
				}
				if written == 0 {
					return io.ErrShortWrite
				}
			}
			for _, b := range bufs {
				b.Clear()
			}
		}
	}()

	if err := multierr.Append(copyErr, out.Close()); err != nil {
		return counts, total, fmt.Errorf("scatter copy %s to %s: %w", src, dst, err)
	}
	c.logger.Debug("scatter copy complete",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Ints("fills", counts),
		zap.Int64("bytes", total))
	return counts, total, nil
}

func (c *Copier) copy(out, in *channel.FileChannel) (int64, error) {
	switch c.opts.Method {
	case Buffered:
		buf, err := buffer.Allocate[byte](c.opts.BufferSize)
		if err != nil {
			return 0, err
		}
		return Copy(out, in, buf)
	case Direct:
		return c.copyDirect(out, in)
	case Mapped:
		return c.copyMapped(out, in)
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownMethod, c.opts.Method)
}

func (c *Copier) copyDirect(out, in *channel.FileChannel) (int64, error) {
	size, err := in.Size()
	if err != nil {
		return 0, err
	}
	var pos int64
	for pos < size {
		n, err := in.TransferTo(out, pos, size-pos)
		pos += n
		if err != nil {
			return pos, err
		}
		if n == 0 {
			// source shrank underneath us
			break
		}
	}
	return pos, nil
}

func (c *Copier) copyMapped(out, in *channel.FileChannel) (int64, error) {
	size, err := in.Size()
	if err != nil {
		return 0, err
	}

	var pos int64
	for pos < size {
		length := size - pos
		if length > mapWindow {
			length = mapWindow
		}
		if err := copyWindow(out, in, pos, length); err != nil {
			return pos, err
		}
		pos += length
	}
	return pos, nil
}

func copyWindow(out, in *channel.FileChannel, offset, length int64) (err error) {
	src, err := in.Map(channel.MapReadOnly, offset, length)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, src.Unmap()) }()

	dst, err := out.Map(channel.MapReadWrite, offset, length)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dst.Unmap()) }()

	if err := dst.PutBuffer(src.ByteBuffer); err != nil {
		return err
	}
	return dst.Flush()
}

func (c *Copier) channelOptions() []channel.Option {
	return []channel.Option{
		channel.WithLogger(c.logger),
		channel.WithMetrics(c.metrics),
		channel.WithTransferChunk(c.opts.TransferChunk),
	}
}

// checkDistinct fails when dst names the same file as src, which truncating
// dst would erase
func checkDistinct(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", dst, err)
	}
	if os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%w: %s and %s are the same file", channel.ErrInvalidArgument, src, dst)
	}
	return nil
}

func tempPath(dst string) string {
	dir, base := filepath.Split(dst)
	return filepath.Join(dir, "."+base+"."+ksuid.New().String()+".tmp")
}

func remaining(bufs []*buffer.ByteBuffer) int {
	n := 0
	for _, b := range bufs {
		n += b.Remaining()
	}
	return n
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
