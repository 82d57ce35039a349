//go:build !linux

package channel

func fdatasync(c *FileChannel) error {
	return c.file.Sync()
}
