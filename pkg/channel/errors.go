package channel

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/ssargent/niokit/pkg/buffer"
)

// Errors
var (
	ErrChannelClosed    = errors.New("channel: closed")
	ErrResourceNotFound = errors.New("channel: resource not found")
	ErrPermissionDenied = errors.New("channel: permission denied")
	ErrNotReadable      = errors.New("channel: not open for reading")
	ErrNotWritable      = errors.New("channel: not open for writing")
	ErrNotSupported     = errors.New("channel: operation not supported")

	// ErrInvalidArgument is shared with the buffer package so callers can test either
	ErrInvalidArgument = buffer.ErrInvalidArgument
)

// classifyOpen maps an os.OpenFile failure onto the channel error taxonomy
func classifyOpen(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("open %s: %w: %w", path, ErrResourceNotFound, err)
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EROFS):
		return fmt.Errorf("open %s: %w: %w", path, ErrPermissionDenied, err)
	default:
		return fmt.Errorf("open %s: %w", path, err)
	}
}
