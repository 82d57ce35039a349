//go:build bench
// +build bench

package charset

import (
	"strings"
	"testing"

	"github.com/ssargent/niokit/pkg/buffer"
)

func BenchmarkCodec_Encode(b *testing.B) {
	benchmarks := []struct {
		charset string
		text    string
	}{
		{"UTF-8", strings.Repeat("héllo 世界 ", 100)},
		{"GBK", strings.Repeat("中文编码 fighting ", 100)},
		{"ISO-8859-1", strings.Repeat("café au lait ", 100)},
		{"UTF-16", strings.Repeat("héllo 世界 ", 100)},
	}

	for _, bm := range benchmarks {
		codec, err := NewCodec(bm.charset)
		if err != nil {
			b.Fatal(err)
		}
		runes := []rune(bm.text)
		b.Run(bm.charset, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Encode(buffer.Wrap(runes)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCodec_Decode(b *testing.B) {
	benchmarks := []struct {
		charset string
		text    string
	}{
		{"UTF-8", strings.Repeat("héllo 世界 ", 100)},
		{"GBK", strings.Repeat("中文编码 fighting ", 100)},
		{"ISO-8859-1", strings.Repeat("café au lait ", 100)},
	}

	for _, bm := range benchmarks {
		codec, err := NewCodec(bm.charset)
		if err != nil {
			b.Fatal(err)
		}
		encoded, err := codec.EncodeString(bm.text)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(bm.charset, func(b *testing.B) {
			b.SetBytes(int64(len(encoded)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Decode(buffer.Wrap(encoded)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
