package huffman_test

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"testing/iotest"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaninAndrea/huffman/internal/huffman"
)

func TestRoundTripIdentity(t *testing.T) {
	f := func(raw []byte) bool {
		container, err := huffman.Encode(raw)
		if err != nil {
			t.Logf("Error encoding: %v", err)
			return false
		}

		decoded, err := huffman.Decode(container)
		if err != nil {
			t.Logf("Error decoding: %v. Container: %x", err, container)
			return false
		}

		if !bytes.Equal(decoded, raw) {
			t.Logf("Mismatch: expected %x, got %x", raw, decoded)
			return false
		}
		return true
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestDeterminism(t *testing.T) {
	f := func(raw []byte) bool {
		first, err := huffman.Encode(raw)
		if err != nil {
			return false
		}
		second, err := huffman.Encode(raw)
		if err != nil {
			return false
		}
		return bytes.Equal(first, second)
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestScenarios(t *testing.T) {
	t.Run("aaab", func(t *testing.T) {
		container, err := huffman.Encode([]byte("aaab"))
		require.NoError(t, err)

		// payload: a=0 a=0 a=0 b=11 EOS=10, one padding bit
		assert.Equal(t, []byte{
			0x00, 0x03,
			'a', 1, 0x00,
			'b', 2, 0xc0,
			0x00, 2, 0x80,
			0x1c,
		}, container)

		decoded, err := huffman.Decode(container)
		require.NoError(t, err)
		assert.Equal(t, "aaab", string(decoded))
	})

	t.Run("empty input", func(t *testing.T) {
		container, err := huffman.Encode(nil)
		require.NoError(t, err)

		// a single one-bit EOS code, then padding
		assert.Equal(t, []byte{0x00, 0x01, 0x00, 1, 0x00, 0x00}, container)

		decoded, err := huffman.Decode(container)
		require.NoError(t, err)
		assert.Empty(t, decoded)
	})

	t.Run("all 256 byte values", func(t *testing.T) {
		raw := make([]byte, 256)
		for i := range raw {
			raw[i] = byte(i)
		}
		rand.New(rand.NewSource(12345)).Shuffle(len(raw), func(i, j int) { raw[i], raw[j] = raw[j], raw[i] })

		var buf bytes.Buffer
		stats, err := huffman.Compress(bytes.NewReader(raw), &buf)
		require.NoError(t, err)
		assert.Equal(t, huffman.NumSymbols, stats.Table.Len())
		assert.Equal(t, []byte{0x01, 0x01}, buf.Bytes()[:2])

		decoded, err := huffman.Decode(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	})

	t.Run("truncated header", func(t *testing.T) {
		container := []byte{0x00, 0x05, 'a', 1, 0x00, 'b', 2, 0x80}

		var out bytes.Buffer
		_, err := huffman.Decompress(bytes.NewReader(container), &out)
		assert.ErrorIs(t, err, huffman.ErrFormat)
		assert.Zero(t, out.Len())
	})
}

func TestSingleSymbolInput(t *testing.T) {
	raw := bytes.Repeat([]byte{'z'}, 1000)

	var buf bytes.Buffer
	stats, err := huffman.Compress(bytes.NewReader(raw), &buf)
	require.NoError(t, err)

	z, _ := stats.Table.Lookup('z')
	assert.Equal(t, 1, z.Length)
	assert.Equal(t, uint64(1001), stats.PayloadBits)
	assert.Equal(t, uint64(1000), stats.InputBytes)
	assert.Equal(t, stats.HeaderBytes+126, stats.ContainerBytes)
	assert.Equal(t, uint64(buf.Len()), stats.ContainerBytes)

	decoded, err := huffman.Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecompressStats(t *testing.T) {
	raw := []byte("the quick brown fox jumps over the lazy dog")

	var container bytes.Buffer
	compressed, err := huffman.Compress(bytes.NewReader(raw), &container)
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := huffman.Decompress(bytes.NewReader(container.Bytes()), &out)
	require.NoError(t, err)

	assert.Equal(t, raw, out.Bytes())
	assert.Equal(t, compressed.HeaderBytes, stats.HeaderBytes)
	assert.Equal(t, compressed.PayloadBits, stats.PayloadBits)
	assert.Equal(t, compressed.ContainerBytes, stats.ContainerBytes)
	assert.Equal(t, compressed.Table.Entries(), stats.Table.Entries())
}

func TestPaddingIsIgnored(t *testing.T) {
	container, err := huffman.Encode([]byte("aaab"))
	require.NoError(t, err)

	// Trailing bytes after the EOS code are never read.
	container = append(container, 0xff, 0xff)
	decoded, err := huffman.Decode(container)
	require.NoError(t, err)
	assert.Equal(t, "aaab", string(decoded))
}

func TestDecompressErrors(t *testing.T) {
	t.Run("payload missing", func(t *testing.T) {
		var buf bytes.Buffer
		stats, err := huffman.Compress(bytes.NewReader([]byte("hello world")), &buf)
		require.NoError(t, err)

		var out bytes.Buffer
		_, err = huffman.Decompress(bytes.NewReader(buf.Bytes()[:stats.HeaderBytes]), &out)
		assert.ErrorIs(t, err, huffman.ErrTruncatedStream)
		assert.Zero(t, out.Len())
	})

	t.Run("payload cut short", func(t *testing.T) {
		raw := bytes.Repeat([]byte("abcdefgh"), 64)
		container, err := huffman.Encode(raw)
		require.NoError(t, err)

		var out bytes.Buffer
		_, err = huffman.Decompress(bytes.NewReader(container[:len(container)-8]), &out)
		assert.ErrorIs(t, err, huffman.ErrTruncatedStream)
		assert.Zero(t, out.Len())
	})

	t.Run("codes share a prefix", func(t *testing.T) {
		container := []byte{0x00, 0x02, 'a', 1, 0x00, 0x00, 2, 0x00, 0x00}
		_, err := huffman.Decode(container)
		assert.ErrorIs(t, err, huffman.ErrFormat)
	})

	t.Run("identical codes", func(t *testing.T) {
		container := []byte{0x00, 0x02, 'a', 1, 0x00, 0x00, 1, 0x00, 0x00}
		_, err := huffman.Decode(container)
		assert.ErrorIs(t, err, huffman.ErrFormat)
	})

	t.Run("bits match no code", func(t *testing.T) {
		// a=00, EOS=01, nothing starts with 1
		container := []byte{0x00, 0x02, 'a', 2, 0x00, 0x00, 2, 0x40, 0x80}
		_, err := huffman.Decode(container)
		assert.ErrorIs(t, err, huffman.ErrFormat)
	})

	t.Run("read failure", func(t *testing.T) {
		disk := errors.New("disk on fire")
		_, err := huffman.Decompress(iotest.ErrReader(disk), &bytes.Buffer{})
		assert.ErrorIs(t, err, huffman.ErrIO)
		assert.ErrorIs(t, err, disk)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestCompressWriteFailure(t *testing.T) {
	_, err := huffman.Compress(bytes.NewReader([]byte("hello")), failingWriter{})
	assert.ErrorIs(t, err, huffman.ErrIO)

	_, err = huffman.Decompress(bytes.NewReader(mustEncode(t, []byte("hello"))), failingWriter{})
	assert.ErrorIs(t, err, huffman.ErrIO)
}

func mustEncode(t *testing.T, raw []byte) []byte {
	t.Helper()
	container, err := huffman.Encode(raw)
	require.NoError(t, err)
	return container
}

func BenchmarkCodec(b *testing.B) {
	sizes := []int{100, 1000, 10000, 100000}
	for _, n := range sizes {
		rng := rand.New(rand.NewSource(12345))
		data := make([]byte, n)
		for i := range data {
			// skewed towards low byte values so the codes differ in length
			data[i] = byte(min(rng.ExpFloat64()*16, 255))
		}

		container, err := huffman.Encode(data)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("Encode_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = huffman.Encode(data)
			}
			b.ReportMetric(100.0*(1.0-float64(len(container))/float64(n)), "%_compression_ratio")
		})

		b.Run(fmt.Sprintf("Decode_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = huffman.Decode(container)
			}
		})
	}
}
