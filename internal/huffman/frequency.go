package huffman

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Symbol is a byte value (0-255) or EndOfStream.
type Symbol uint16

const (
	// EndOfStream terminates every payload. It never occurs in the input.
	EndOfStream Symbol = 256

	// NumSymbols is the alphabet size including EndOfStream.
	NumSymbols = 257
)

func (s Symbol) String() string {
	if s == EndOfStream {
		return "EOS"
	}
	return fmt.Sprintf("%q", byte(s))
}

// SymbolFrequency pairs a symbol with its occurrence count.
type SymbolFrequency struct {
	Symbol Symbol
	Count  uint64
}

// FrequencyTable holds the occurrence count of every byte value.
type FrequencyTable [256]uint64

// CountFrequencies reads r to the end, counting every byte, then rewinds r
// to its start so the same stream can be encoded.
func CountFrequencies(r io.ReadSeeker) (FrequencyTable, error) {
	var table FrequencyTable

	br := bufio.NewReader(r)
	for {
		ch, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return FrequencyTable{}, fmt.Errorf("%w: reading input: %w", ErrIO, err)
		}

		table[ch]++
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return FrequencyTable{}, fmt.Errorf("%w: rewinding input: %w", ErrIO, err)
	}

	return table, nil
}

// Total returns the sum of all counts, which equals the input length.
func (f *FrequencyTable) Total() uint64 {
	var total uint64
	for _, count := range f {
		total += count
	}
	return total
}

// Compact returns the symbols with a non-zero count in ascending byte order.
func (f *FrequencyTable) Compact() []SymbolFrequency {
	compact := make([]SymbolFrequency, 0, 16)
	for b, count := range f {
		if count == 0 {
			continue
		}
		compact = append(compact, SymbolFrequency{Symbol: Symbol(b), Count: count})
	}
	return compact
}
