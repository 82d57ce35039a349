//go:build linux

package channel

import (
	"errors"

	"golang.org/x/sys/unix"
)

// maxCopyChunk bounds a single copy_file_range call
const maxCopyChunk = 1 << 30

// copyFileRange moves length bytes between two files inside the kernel.
// A negative offset means "use and advance the file's own position".
// handled is false when the kernel refused before copying anything, in which
// case the caller falls back to a staged copy.
func copyFileRange(src *FileChannel, srcOff int64, dst *FileChannel, dstOff int64, length int64) (n int64, handled bool, err error) {
	var total int64
	err = src.control(func(rfd int) error {
		return dst.control(func(wfd int) error {
			for total < length {
				var roff, woff *int64
				if srcOff >= 0 {
					o := srcOff + total
					roff = &o
				}
				if dstOff >= 0 {
					o := dstOff + total
					woff = &o
				}
				chunk := length - total
				if chunk > maxCopyChunk {
					chunk = maxCopyChunk
				}

				n, err := unix.CopyFileRange(rfd, roff, wfd, woff, int(chunk), 0)
				if err == unix.EINTR {
					continue
				}
				if err != nil {
					return err
				}
				if n == 0 {
					return nil
				}
				total += int64(n)
			}
			return nil
		})
	})
	if err != nil && total == 0 && kernelCopyUnsupported(err) {
		return 0, false, nil
	}
	return total, true, err
}

func kernelCopyUnsupported(err error) bool {
	return errors.Is(err, unix.EXDEV) ||
		errors.Is(err, unix.ENOSYS) ||
		errors.Is(err, unix.EINVAL) ||
		errors.Is(err, unix.EOPNOTSUPP) ||
		errors.Is(err, unix.EBADF) ||
		errors.Is(err, unix.EPERM)
}
