package compression

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func BenchmarkCompression(b *testing.B) {
	c := Config{Enabled: true}
	require.NoError(b, c.Init())

	for _, size := range []int{128, 1024, 32 * 1024, 4 * 1024 * 1024} {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.Run("zeroed slice", func(b *testing.B) {
				benchWith(b, &c, make([]byte, size))
			})
			b.Run("repeated block (block = 123)", func(b *testing.B) {
				benchWith(b, &c, repeatedBlock(size, 123))
			})
			b.Run("random slice", func(b *testing.B) {
				data := make([]byte, size)
				_, _ = rand.Read(data)
				benchWith(b, &c, data)
			})
		})
	}
}

func benchWith(b *testing.B, c *Config, data []byte) {
	b.Run("compress", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = c.Compress(data)
		}
	})

	compressed := c.Compress(data)
	b.Run("decompress", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, err := c.Decompress(compressed)
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

func repeatedBlock(size, blockSize int) []byte {
	data := make([]byte, size)
	_, _ = rand.Read(data[:blockSize])
	for i := blockSize; i < size; i += blockSize {
		copy(data[i:], data[:blockSize])
	}
	return data
}
