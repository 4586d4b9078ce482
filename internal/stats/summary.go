package stats

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Summary compares the size of an input with the size of its container.
type Summary struct {
	OriginalBits   uint64
	CompressedBits uint64

	// LZ4Bits is the size of the same input as a single LZ4 block, or 0 when
	// no reference was computed.
	LZ4Bits uint64
}

func Summarize(originalBytes, compressedBytes uint64) Summary {
	return Summary{
		OriginalBits:   originalBytes * 8,
		CompressedBits: compressedBytes * 8,
	}
}

// Ratio returns the compressed size as a percentage of the original size.
// It is 0 for an empty original.
func (s Summary) Ratio() float64 {
	if s.OriginalBits == 0 {
		return 0
	}
	return 100 * float64(s.CompressedBits) / float64(s.OriginalBits)
}

// Saved returns the percentage of the original size that compression removed.
// It is negative when the container is larger than the original.
func (s Summary) Saved() float64 {
	if s.OriginalBits == 0 {
		return 0
	}
	return 100 * (float64(s.OriginalBits) - float64(s.CompressedBits)) / float64(s.OriginalBits)
}

// WithLZ4 records the size of data compressed as one LZ4 block.
// Incompressible data counts at its original size.
func (s Summary) WithLZ4(data []byte) (Summary, error) {
	if len(data) == 0 {
		s.LZ4Bits = 0
		return s, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return s, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 {
		n = len(data)
	}

	s.LZ4Bits = uint64(n) * 8
	return s, nil
}

// WriteTo prints the summary in a human readable form.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	text := fmt.Sprintf("Original bits = %d\nCompressed bits = %d\n", s.OriginalBits, s.CompressedBits)
	if s.OriginalBits == 0 {
		text += "Compression ratio n/a (empty input)\n"
	} else {
		text += fmt.Sprintf("Compression ratio of %.2f%%\nSaved %.2f%% of memory\n", s.Ratio(), s.Saved())
	}
	if s.LZ4Bits > 0 {
		text += fmt.Sprintf("LZ4 reference bits = %d\n", s.LZ4Bits)
	}

	n, err := io.WriteString(w, text)
	return int64(n), err
}
