package charset

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Charset is a named character encoding
type Charset struct {
	name    string
	aliases []string
	enc     encoding.Encoding

	// encoded form of U+FFFD, used to tell real replacement characters from decode failures
	replacement []byte
}

func newCharset(name string, aliases []string, enc encoding.Encoding) *Charset {
	cs := &Charset{
		name:    name,
		aliases: aliases,
		enc:     enc,
	}
	if repl, err := enc.NewEncoder().Bytes([]byte(string(utf8.RuneError))); err == nil {
		cs.replacement = stripBOM(repl)
	}
	return cs
}

// Name returns the canonical name
func (c *Charset) Name() string {
	return c.name
}

// Aliases returns the alternative names the charset is registered under
func (c *Charset) Aliases() []string {
	out := make([]string, len(c.aliases))
	copy(out, c.aliases)
	return out
}

// Encoding returns the underlying golang.org/x/text encoding
func (c *Charset) Encoding() encoding.Encoding {
	return c.enc
}

func (c *Charset) String() string {
	return c.name
}

// CanEncode reports whether every character of s has a representation in c
func (c *Charset) CanEncode(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	_, _, err := transform.String(c.enc.NewEncoder(), s)
	return err == nil
}

// NewReader returns a reader that decodes r from c into UTF-8.
// Malformed input is replaced with U+FFFD.
func (c *Charset) NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, c.enc.NewDecoder())
}

// NewWriter returns a writer that encodes UTF-8 written to it into c on w.
// Close flushes any buffered state but does not close w.
func (c *Charset) NewWriter(w io.Writer) io.WriteCloser {
	return transform.NewWriter(w, c.enc.NewEncoder())
}

func (c *Charset) isUTF8() bool {
	return c.name == "UTF-8"
}

// isReplacement reports whether seq is the encoded form of U+FFFD
func (c *Charset) isReplacement(seq []byte) bool {
	return len(c.replacement) > 0 && bytes.Equal(seq, c.replacement)
}

func stripBOM(b []byte) []byte {
	switch {
	case bytes.HasPrefix(b, []byte{0xFE, 0xFF}) && len(b) > 2:
		return b[2:]
	case bytes.HasPrefix(b, []byte{0xFF, 0xFE}) && len(b) > 2:
		return b[2:]
	}
	return b
}
