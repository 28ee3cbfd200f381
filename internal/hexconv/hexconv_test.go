package hexconv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, tc := range []struct {
			Hi, Lo byte
			Want   byte
		}{
			{'0', '0', 0x00},
			{'2', 'f', 0x2f},
			{'2', 'F', 0x2f},
			{'f', 'f', 0xff},
			{'A', '9', 0xa9},
		} {
			value, ok := Parse(tc.Hi, tc.Lo)
			require.True(t, ok)
			require.Equal(t, tc.Want, value)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, pair := range []string{"g0", "0g", "  ", "-1", "x%"} {
			_, ok := Parse(pair[0], pair[1])
			require.False(t, ok, pair)
		}
	})
}

func benchLocal(b *testing.B, str string) {
	b.SetBytes(int64(len(str)))
	b.ResetTimer()

	for range b.N {
		var result uint64

		for j := range str {
			result = (result << 4) | uint64(Halfbyte[str[j]])
		}
	}
}

func BenchmarkParse(b *testing.B) {
	b.Run("short", func(b *testing.B) {
		benchLocal(b, "123456789abcdef")
	})

	b.Run("long", func(b *testing.B) {
		benchLocal(b, strings.Repeat("123456789abcdef", 100))
	})
}
