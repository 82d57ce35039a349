//go:build !linux && !darwin

package channel

func mmap(c *FileChannel, offset int64, length int, mode MapMode) ([]byte, error) {
	return nil, ErrNotSupported
}

func munmap(b []byte) error {
	return nil
}

func msync(b []byte) error {
	return nil
}

func madviseWillNeed(b []byte) error {
	return nil
}
