//go:build linux || darwin

package channel

import (
	"golang.org/x/sys/unix"
)

func mmap(c *FileChannel, offset int64, length int, mode MapMode) ([]byte, error) {
	prot := unix.PROT_READ
	flags := unix.MAP_SHARED
	switch mode {
	case MapReadWrite:
		prot |= unix.PROT_WRITE
	case MapPrivate:
		prot |= unix.PROT_WRITE
		flags = unix.MAP_PRIVATE
	}

	var data []byte
	err := c.control(func(fd int) error {
		var err error
		data, err = unix.Mmap(fd, offset, length, prot, flags)
		return err
	})
	return data, err
}

func munmap(b []byte) error {
	return unix.Munmap(b)
}

func msync(b []byte) error {
	return unix.Msync(b, unix.MS_SYNC)
}

func madviseWillNeed(b []byte) error {
	return unix.Madvise(b, unix.MADV_WILLNEED)
}
