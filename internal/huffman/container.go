package huffman

import (
	"errors"
	"fmt"
	"io"

	"github.com/ZaninAndrea/huffman/internal/archive"
)

// A container is a code table header followed by the packed payload:
// - The number of entries, end-of-stream included (uint16, big-endian)
// - For each entry, in ascending byte order with end-of-stream last:
//   - The symbol byte (uint8, written as 0 and ignored for end-of-stream)
//   - The code length in bits (uint8, 1-255)
//   - The code bits, MSB first, in ceil(length/8) bytes
// - The payload: the code of every input byte in order, the end-of-stream
//   code, then zero bits up to the next byte boundary.
//
// The entry count would not fit a single byte when all 256 byte values occur,
// hence the two-byte field.

func writeHeader(sw *archive.StructuredWriter, table *CodeTable) error {
	entries := table.Entries()
	if err := sw.WriteUInt16(uint16(len(entries))); err != nil {
		return err
	}

	for _, e := range entries {
		symbolByte := uint8(0)
		if e.Symbol != EndOfStream {
			symbolByte = uint8(e.Symbol)
		}

		if err := sw.WriteUint8(symbolByte); err != nil {
			return err
		}
		if err := sw.WriteUint8(uint8(e.Code.Length)); err != nil {
			return err
		}
		if err := sw.WriteRaw(e.Code.Bits); err != nil {
			return err
		}
	}

	return nil
}

func readHeader(sr *archive.StructuredReader) (*CodeTable, error) {
	count, err := sr.ReadUInt16()
	if err != nil {
		return nil, headerError("entry count", err)
	}
	if count == 0 || count > NumSymbols {
		return nil, fmt.Errorf("%w: entry count %d outside 1..%d", ErrFormat, count, NumSymbols)
	}

	table := &CodeTable{}
	for i := 0; i < int(count); i++ {
		symbolByte, err := sr.ReadUint8()
		if err != nil {
			return nil, headerError(fmt.Sprintf("entry %d of %d", i+1, count), err)
		}

		length, err := sr.ReadUint8()
		if err != nil {
			return nil, headerError(fmt.Sprintf("entry %d of %d", i+1, count), err)
		}
		if length == 0 {
			return nil, fmt.Errorf("%w: entry %d has an empty code", ErrFormat, i+1)
		}

		bits, err := sr.ReadRaw((int(length) + 7) / 8)
		if err != nil {
			return nil, headerError(fmt.Sprintf("entry %d of %d", i+1, count), err)
		}

		symbol := Symbol(symbolByte)
		if i == int(count)-1 {
			symbol = EndOfStream
		}
		if _, dup := table.Lookup(symbol); dup {
			return nil, fmt.Errorf("%w: symbol %s appears twice", ErrFormat, symbol)
		}

		table.Set(symbol, Code{Bits: bits, Length: int(length)})
	}

	return table, nil
}

// headerError classifies a failed header read: running out of bytes means the
// header lied about its size, anything else is an i/o failure.
func headerError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: header truncated in %s: %w", ErrFormat, what, err)
	}
	return fmt.Errorf("%w: reading header: %w", ErrIO, err)
}
