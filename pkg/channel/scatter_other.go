//go:build !linux

package channel

// Without readv/writev the generic per-buffer loop does all the work.
func readv(c *FileChannel, iovs [][]byte) (int64, bool, error) {
	return 0, false, nil
}

func writev(c *FileChannel, iovs [][]byte) (int64, bool, error) {
	return 0, false, nil
}
