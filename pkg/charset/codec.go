package charset

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/ssargent/niokit/pkg/buffer"
	"github.com/ssargent/niokit/pkg/metrics"
)

// Action selects how a Codec handles input it cannot convert
type Action int

const (
	// Report fails the call with a *CodingError
	Report Action = iota
	// Replace substitutes the charset's replacement and carries on
	Replace
)

func (a Action) String() string {
	if a == Replace {
		return "replace"
	}
	return "report"
}

// Option configures a Codec
type Option func(*Codec)

// WithUnmappable sets the action for characters the charset cannot encode
func WithUnmappable(a Action) Option {
	return func(c *Codec) {
		c.onUnmappable = a
	}
}

// WithMalformed sets the action for invalid input
func WithMalformed(a Action) Option {
	return func(c *Codec) {
		c.onMalformed = a
	}
}

// WithLogger sets the logger used to report coding failures
func WithLogger(logger *zap.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records encode and decode calls into m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Codec) {
		c.metrics = m
	}
}

// Codec encodes character buffers into byte buffers and back under one charset.
// It keeps no state between calls and is safe for concurrent use.
type Codec struct {
	cs           *Charset
	onUnmappable Action
	onMalformed  Action
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewCodec looks up name and returns a codec for it
func NewCodec(name string, opts ...Option) (*Codec, error) {
	cs, err := ForName(name)
	if err != nil {
		return nil, err
	}
	return cs.NewCodec(opts...), nil
}

// NewCodec returns a codec for c
func (c *Charset) NewCodec(opts ...Option) *Codec {
	codec := &Codec{
		cs:     c,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec
}

// Charset returns the charset the codec converts under
func (c *Codec) Charset() *Charset {
	return c.cs
}

// Encode consumes the remaining characters of src and returns their encoding
// in a new buffer positioned at 0 with its limit at the encoded length.
// On failure src is left untouched.
func (c *Codec) Encode(src *buffer.CharBuffer) (*buffer.ByteBuffer, error) {
	runes, err := src.Readable()
	if err != nil {
		return nil, err
	}
	out, err := c.encode(runes)
	c.metrics.RecordCodec("encode", c.cs.name, err)
	if err != nil {
		c.logger.Debug("encode failed", zap.String("charset", c.cs.name), zap.Error(err))
		return nil, err
	}
	if err := src.Advance(len(runes)); err != nil {
		return nil, err
	}
	return buffer.Wrap(out), nil
}

// Decode consumes the remaining bytes of src and returns the characters they
// encode in a new buffer positioned at 0 with its limit at the character count.
// On failure src is left untouched.
func (c *Codec) Decode(src *buffer.ByteBuffer) (*buffer.CharBuffer, error) {
	data, err := src.Readable()
	if err != nil {
		return nil, err
	}
	out, err := c.decode(data)
	c.metrics.RecordCodec("decode", c.cs.name, err)
	if err != nil {
		c.logger.Debug("decode failed", zap.String("charset", c.cs.name), zap.Error(err))
		return nil, err
	}
	if err := src.Advance(len(data)); err != nil {
		return nil, err
	}
	return buffer.Wrap([]rune(out)), nil
}

// EncodeString encodes s
func (c *Codec) EncodeString(s string) ([]byte, error) {
	out, err := c.encode([]rune(s))
	c.metrics.RecordCodec("encode", c.cs.name, err)
	return out, err
}

// DecodeBytes decodes b
func (c *Codec) DecodeBytes(b []byte) (string, error) {
	out, err := c.decode(b)
	c.metrics.RecordCodec("decode", c.cs.name, err)
	return out, err
}

func (c *Codec) encode(runes []rune) ([]byte, error) {
	for i, r := range runes {
		if !utf8.ValidRune(r) {
			if c.onMalformed == Report {
				return nil, c.codingError("encode", i, fmt.Errorf("%w: invalid rune %U", ErrMalformedInput, r))
			}
			// string conversion below turns it into U+FFFD
		}
	}

	s := string(runes)
	var enc transform.Transformer = c.cs.enc.NewEncoder()
	if c.onUnmappable == Replace {
		enc = encoding.ReplaceUnsupported(c.cs.enc.NewEncoder())
	}

	out, n, err := transform.String(enc, s)
	if err != nil {
		idx := utf8.RuneCountInString(s[:n])
		r, _ := utf8.DecodeRuneInString(s[n:])
		return nil, c.codingError("encode", idx, fmt.Errorf("%w: %U", ErrUnmappableCharacter, r))
	}
	return []byte(out), nil
}

func (c *Codec) decode(data []byte) (string, error) {
	if c.onMalformed == Report {
		if idx := c.malformedAt(data); idx >= 0 {
			return "", c.codingError("decode", idx, ErrMalformedInput)
		}
	}

	out, _, err := transform.Bytes(c.cs.enc.NewDecoder(), data)
	if err != nil {
		return "", c.codingError("decode", -1, fmt.Errorf("%w: %v", ErrMalformedInput, err))
	}

	if c.onMalformed == Report && !c.cs.isUTF8() && bytes.ContainsRune(out, utf8.RuneError) {
		if idx := c.substitutedAt(data); idx >= 0 {
			return "", c.codingError("decode", idx, ErrMalformedInput)
		}
	}
	return string(out), nil
}

// malformedAt returns the byte offset of the first invalid sequence when it
// can be located without decoding, or -1
func (c *Codec) malformedAt(data []byte) int {
	if !c.cs.isUTF8() {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// substitutedAt steps the decoder one character at a time and returns the
// byte offset of the first sequence decoded to U+FFFD that is not itself an
// encoded U+FFFD, or -1
func (c *Codec) substitutedAt(data []byte) int {
	dec := c.cs.enc.NewDecoder()
	var dst [64]byte
	for pos := 0; pos < len(data); {
		nDst, nSrc := 0, 0
		// grow the window until the decoder consumes exactly one character
		for k := 1; nSrc == 0 && pos+k <= len(data); k++ {
			var err error
			nDst, nSrc, err = dec.Transform(dst[:], data[pos:pos+k], pos+k == len(data))
			if err != nil && !errors.Is(err, transform.ErrShortSrc) {
				return pos
			}
		}
		if nSrc == 0 {
			return pos
		}
		if bytes.ContainsRune(dst[:nDst], utf8.RuneError) && !c.cs.isReplacement(data[pos:pos+nSrc]) {
			return pos
		}
		pos += nSrc
	}
	return -1
}

func (c *Codec) codingError(op string, index int, err error) *CodingError {
	return &CodingError{
		Op:      op,
		Charset: c.cs.name,
		Index:   index,
		Err:     err,
	}
}
