package method

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func BenchmarkMethod(b *testing.B) {
	var parsed Method

	for _, m := range List {
		b.Run(m.String(), func(b *testing.B) {
			str := m.String()
			b.SetBytes(int64(len(str)))
			b.ResetTimer()

			for j := 0; j < b.N; j++ {
				parsed = Parse(str)
			}
		})
	}

	keepalive(parsed)
}

func keepalive(Method) {}

func TestMethod(t *testing.T) {
	for _, method := range List {
		assert.Equal(t, method, Parse(method.String()))
	}

	t.Run("case sensitive", func(t *testing.T) {
		for _, str := range []string{"get", "Get", "post", "Delete", "pUT"} {
			assert.Equal(t, Unknown, Parse(str))
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		for _, str := range []string{"HEAD", "PATCH", "OPTIONS", "TRACE", "CONNECT", "", "GETS"} {
			assert.Equal(t, Unknown, Parse(str))
		}
	})

	assert.Equal(t, DELETE, Method(Count))
}
