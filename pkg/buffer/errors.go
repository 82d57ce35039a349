package buffer

import "errors"

// Errors
var (
	ErrInvalidArgument = errors.New("buffer: invalid argument")
	ErrBufferOverflow  = errors.New("buffer: overflow")
	ErrBufferUnderflow = errors.New("buffer: underflow")
	ErrInvalidMark     = errors.New("buffer: mark not set")
	ErrReadOnly        = errors.New("buffer: read-only")
	ErrMappingClosed   = errors.New("buffer: mapping closed")
)
