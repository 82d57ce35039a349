package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForName(t *testing.T) {
	tests := []struct {
		lookup string
		want   string
	}{
		{"UTF-8", "UTF-8"},
		{"utf8", "UTF-8"},
		{"Utf_8", "UTF-8"},
		{" utf-8 ", "UTF-8"},
		{"utf-16be", "UTF-16BE"},
		{"latin1", "ISO-8859-1"},
		{"iso_8859-1", "ISO-8859-1"},
		{"CP1252", "windows-1252"},
		{"gbk", "GBK"},
		{"cp936", "GBK"},
		{"sjis", "Shift_JIS"},
		{"euc-kr", "EUC-KR"},
		{"koi8r", "KOI8-R"},
	}

	for _, tt := range tests {
		t.Run(tt.lookup, func(t *testing.T) {
			cs, err := ForName(tt.lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cs.Name())
			assert.Equal(t, tt.want, cs.String())
			assert.True(t, IsSupported(tt.lookup))
		})
	}
}

func TestForName_SameInstance(t *testing.T) {
	a, err := ForName("GBK")
	require.NoError(t, err)
	b, err := ForName("cp936")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Contains(t, a.Aliases(), "CP936")

	// Aliases returns a copy
	aliases := a.Aliases()
	aliases[0] = "changed"
	assert.NotContains(t, a.Aliases(), "changed")
}

func TestForName_Unsupported(t *testing.T) {
	for _, name := range []string{"", "   ", "no-such-charset", "UTF-9"} {
		cs, err := ForName(name)
		assert.Nil(t, cs)
		assert.ErrorIs(t, err, ErrUnsupportedCharset, name)
		assert.False(t, IsSupported(name))
	}
}

func TestForName_IANAFallback(t *testing.T) {
	cs, err := ForName("ISO-8859-5")
	require.NoError(t, err)
	require.NotNil(t, cs.Encoding())

	again, err := ForName("iso-8859-5")
	require.NoError(t, err)
	assert.Same(t, cs, again, "resolved charsets are memoized")

	codec := cs.NewCodec()
	encoded, err := codec.EncodeString("Привет")
	require.NoError(t, err)
	assert.Len(t, encoded, 6)

	decoded, err := codec.DecodeBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, "Привет", decoded)
}

func TestDefault(t *testing.T) {
	cs := Default()
	require.NotNil(t, cs)
	assert.Equal(t, DefaultName, cs.Name())
}
