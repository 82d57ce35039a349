package transfer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned by ParseMethod for names it does not recognise
var ErrUnknownMethod = errors.New("transfer: unknown copy method")

// Method selects how CopyFile moves bytes
type Method int

const (
	// Buffered copies through a heap buffer with the read/flip/write/compact loop
	Buffered Method = iota
	// Direct hands the copy to FileChannel.TransferTo
	Direct
	// Mapped maps both files and copies between the mappings
	Mapped
)

func (m Method) String() string {
	switch m {
	case Buffered:
		return "buffered"
	case Direct:
		return "direct"
	case Mapped:
		return "mapped"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// ParseMethod converts a method name to a Method
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buffered", "":
		return Buffered, nil
	case "direct", "transfer":
		return Direct, nil
	case "mapped", "mmap":
		return Mapped, nil
	}
	return Buffered, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}
