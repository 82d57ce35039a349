package channel

import (
	"fmt"
	"math"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ssargent/niokit/pkg/buffer"
)

// MappedBuffer is a byte buffer whose storage is a memory mapping of a file region.
// It stays usable until Unmap or until the owning channel is closed; after that
// every storage access fails with buffer.ErrMappingClosed.
type MappedBuffer struct {
	*buffer.ByteBuffer
	m *mapping
}

type mapping struct {
	region   []byte // page-aligned region handed out by mmap
	mode     MapMode
	offset   int64
	length   int64
	released bool
	owner    *FileChannel
}

func (m *mapping) Valid() error {
	if m.released {
		return buffer.ErrMappingClosed
	}
	return nil
}

func (m *mapping) release(flush bool) error {
	if m.released {
		return nil
	}
	m.released = true
	delete(m.owner.mappings, m)

	var err error
	if len(m.region) > 0 {
		if flush && m.mode == MapReadWrite {
			err = multierr.Append(err, msync(m.region))
		}
		err = multierr.Append(err, munmap(m.region))
		m.region = nil
	}
	if err != nil {
		err = m.owner.wrap("unmap", err)
	}

	m.owner.opts.metrics.MappingClosed()
	m.owner.opts.logger.Debug("mapping released",
		zap.String("path", m.owner.path),
		zap.Int64("offset", m.offset),
		zap.Int64("length", m.length),
		zap.Error(err))
	return err
}

// Map returns a buffer viewing the file bytes [offset, offset+length).
//
// Every mode needs a readable channel; MapReadWrite also needs a writable one
// and grows the file when the region extends past its end. Writes through a
// MapReadOnly buffer fail with buffer.ErrReadOnly. Writes through a
// MapReadWrite buffer are visible to other mappings of the same region and
// reach the file no later than Flush.
func (c *FileChannel) Map(mode MapMode, offset, length int64) (*MappedBuffer, error) {
	if err := c.ensureReadable(); err != nil {
		return nil, err
	}
	if mode > MapPrivate {
		return nil, fmt.Errorf("%w: map mode %d", ErrInvalidArgument, mode)
	}
	if mode == MapReadWrite && !c.mode.Writable() {
		return nil, ErrNotWritable
	}
	if offset < 0 || length < 0 || length > math.MaxInt || offset > math.MaxInt64-length {
		return nil, fmt.Errorf("%w: offset %d length %d", ErrInvalidArgument, offset, length)
	}

	size, err := c.Size()
	if err != nil {
		return nil, err
	}
	if offset+length > size {
		if mode != MapReadWrite {
			return nil, fmt.Errorf("%w: region [%d, %d) exceeds size %d",
				ErrInvalidArgument, offset, offset+length, size)
		}
		if err := c.file.Truncate(offset + length); err != nil {
			return nil, c.wrap("map", err)
		}
	}

	m := &mapping{
		mode:   mode,
		offset: offset,
		length: length,
		owner:  c,
	}

	var data []byte
	if length > 0 {
		pageOff := offset % int64(os.Getpagesize())
		region, err := mmap(c, offset-pageOff, int(length+pageOff), mode)
		if err != nil {
			err = c.wrap("map", err)
			if offset+length > size {
				// shrink back to the size the file had before Map grew it
				if terr := c.file.Truncate(size); terr != nil {
					err = multierr.Append(err, c.wrap("map", terr))
				}
			}
			return nil, err
		}
		m.region = region
		data = region[pageOff : pageOff+length]
	}

	if c.mappings == nil {
		c.mappings = make(map[*mapping]struct{})
	}
	c.mappings[m] = struct{}{}
	c.opts.metrics.MappingOpened()
	c.opts.logger.Debug("mapping created",
		zap.String("path", c.path),
		zap.Stringer("mode", mode),
		zap.Int64("offset", offset),
		zap.Int64("length", length))

	return &MappedBuffer{
		ByteBuffer: buffer.NewView(data, m, mode == MapReadOnly),
		m:          m,
	}, nil
}

// Mode returns the access mode of the mapping
func (b *MappedBuffer) Mode() MapMode {
	return b.m.mode
}

// Offset returns the file offset of the first mapped byte
func (b *MappedBuffer) Offset() int64 {
	return b.m.offset
}

// IsMapped reports whether the mapping is still live
func (b *MappedBuffer) IsMapped() bool {
	return !b.m.released
}

// Flush forces changes made through a read-write mapping out to the file
func (b *MappedBuffer) Flush() error {
	if err := b.m.Valid(); err != nil {
		return err
	}
	if b.m.mode != MapReadWrite || len(b.m.region) == 0 {
		return nil
	}
	if err := msync(b.m.region); err != nil {
		return b.m.owner.wrap("flush", err)
	}
	return nil
}

// Load hints the kernel to page the region in ahead of access
func (b *MappedBuffer) Load() error {
	if err := b.m.Valid(); err != nil {
		return err
	}
	if len(b.m.region) == 0 {
		return nil
	}
	if err := madviseWillNeed(b.m.region); err != nil {
		return b.m.owner.wrap("load", err)
	}
	return nil
}

// Unmap releases the mapping. Only the first call has effect.
func (b *MappedBuffer) Unmap() error {
	return b.m.release(false)
}
