package channel

import (
	"os"
	"strings"
)

// Mode selects how a resource is opened. Flags may be combined.
type Mode uint8

const (
	Read Mode = 1 << iota
	Write
	Create   // create the resource if absent; implies Write
	Truncate // discard existing content; implies Write
	Append   // every write goes to the end; implies Write
)

// Named access modes
const (
	ModeRead      = Read
	ModeWrite     = Write
	ModeReadWrite = Read | Write
	ModeCreate    = Write | Create
)

// Readable reports whether the mode permits reading
func (m Mode) Readable() bool {
	return m&Read != 0
}

// Writable reports whether the mode permits writing
func (m Mode) Writable() bool {
	return m&(Write|Create|Truncate|Append) != 0
}

func (m Mode) flags() int {
	var flag int
	switch {
	case m.Readable() && m.Writable():
		flag = os.O_RDWR
	case m.Writable():
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	if m&Create != 0 {
		flag |= os.O_CREATE
	}
	if m&Truncate != 0 {
		flag |= os.O_TRUNC
	}
	if m&Append != 0 {
		flag |= os.O_APPEND
	}
	return flag
}

func (m Mode) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		m    Mode
		name string
	}{
		{Read, "read"}, {Write, "write"}, {Create, "create"}, {Truncate, "truncate"}, {Append, "append"},
	} {
		if m&f.m != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// MapMode selects the access of a memory mapping
type MapMode uint8

const (
	MapReadOnly  MapMode = iota // writes fail with buffer.ErrReadOnly
	MapReadWrite                // writes reach the resource
	MapPrivate                  // writes stay in a private copy-on-write page set
)

func (m MapMode) String() string {
	switch m {
	case MapReadOnly:
		return "read-only"
	case MapReadWrite:
		return "read-write"
	case MapPrivate:
		return "private"
	default:
		return "unknown"
	}
}
