//go:build linux

package channel

import (
	"golang.org/x/sys/unix"
)

func fdatasync(c *FileChannel) error {
	return c.control(func(fd int) error {
		return unix.Fdatasync(fd)
	})
}
