package charset

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrUnsupportedCharset  = errors.New("charset: unsupported charset")
	ErrUnmappableCharacter = errors.New("charset: unmappable character")
	ErrMalformedInput      = errors.New("charset: malformed input")
)

// CodingError reports where an encode or decode call failed.
//
// Index is the rune index into the source for encode and the byte offset for
// decode. It is -1 when the failing position could not be determined.
type CodingError struct {
	Op      string
	Charset string
	Index   int
	Err     error
}

func (e *CodingError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Charset, e.Err)
	}
	return fmt.Sprintf("%s %s at index %d: %v", e.Op, e.Charset, e.Index, e.Err)
}

func (e *CodingError) Unwrap() error {
	return e.Err
}
