package charset

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// DefaultName is the charset returned by Default
const DefaultName = "UTF-8"

var builtins = []struct {
	name    string
	aliases []string
	enc     encoding.Encoding
}{
	{"UTF-8", []string{"UTF8"}, unicode.UTF8},
	{"UTF-16", []string{"UTF16"}, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
	{"UTF-16BE", nil, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
	{"UTF-16LE", nil, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{"ISO-8859-1", []string{"latin1", "l1", "ISO8859_1", "ISO_8859-1"}, charmap.ISO8859_1},
	{"windows-1252", []string{"cp1252"}, charmap.Windows1252},
	{"GBK", []string{"CP936", "windows-936"}, simplifiedchinese.GBK},
	{"GB18030", nil, simplifiedchinese.GB18030},
	{"Big5", []string{"csBig5"}, traditionalchinese.Big5},
	{"Shift_JIS", []string{"SJIS", "MS_Kanji"}, japanese.ShiftJIS},
	{"EUC-JP", nil, japanese.EUCJP},
	{"EUC-KR", nil, korean.EUCKR},
	{"KOI8-R", nil, charmap.KOI8R},
}

type registry struct {
	byName map[string]*Charset

	// charsets resolved through the IANA index, keyed by normalized name
	resolved sync.Map
}

var (
	registryOnce sync.Once
	global       *registry
)

func defaultRegistry() *registry {
	registryOnce.Do(func() {
		r := &registry{byName: make(map[string]*Charset)}
		for _, b := range builtins {
			cs := newCharset(b.name, b.aliases, b.enc)
			r.byName[normalize(b.name)] = cs
			for _, alias := range b.aliases {
				r.byName[normalize(alias)] = cs
			}
		}
		global = r
	})
	return global
}

func (r *registry) lookup(name string) (*Charset, error) {
	key := normalize(name)
	if key == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnsupportedCharset)
	}
	if cs, ok := r.byName[key]; ok {
		return cs, nil
	}
	if cs, ok := r.resolved.Load(key); ok {
		return cs.(*Charset), nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharset, name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}

	cs, _ := r.resolved.LoadOrStore(key, newCharset(canonical, nil, enc))
	return cs.(*Charset), nil
}

// ForName returns the charset registered under name
func ForName(name string) (*Charset, error) {
	return defaultRegistry().lookup(name)
}

// IsSupported reports whether name resolves to a charset
func IsSupported(name string) bool {
	_, err := ForName(name)
	return err == nil
}

// Default returns the UTF-8 charset
func Default() *Charset {
	cs, _ := ForName(DefaultName)
	return cs
}

func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(name)))
}
