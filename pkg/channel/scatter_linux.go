//go:build linux

package channel

import (
	"golang.org/x/sys/unix"
)

// maxIovecs is the kernel's IOV_MAX
const maxIovecs = 1024

func readv(c *FileChannel, iovs [][]byte) (int64, bool, error) {
	if len(iovs) == 0 || len(iovs) > maxIovecs {
		return 0, false, nil
	}
	var n int
	err := c.control(func(fd int) error {
		for {
			var err error
			n, err = unix.Readv(fd, iovs)
			if err == unix.EINTR {
				continue
			}
			return err
		}
	})
	if n < 0 {
		n = 0
	}
	return int64(n), true, err
}

func writev(c *FileChannel, iovs [][]byte) (int64, bool, error) {
	if len(iovs) == 0 || len(iovs) > maxIovecs {
		return 0, false, nil
	}
	var n int
	err := c.control(func(fd int) error {
		for {
			var err error
			n, err = unix.Writev(fd, iovs)
			if err == unix.EINTR {
				continue
			}
			return err
		}
	})
	if n < 0 {
		n = 0
	}
	return int64(n), true, err
}
