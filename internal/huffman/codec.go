package huffman

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ZaninAndrea/huffman/internal/archive"
)

// Stats describes one Compress or Decompress call.
type Stats struct {
	// InputBytes is the size of the uncompressed data.
	InputBytes uint64
	// HeaderBytes is the size of the code table header.
	HeaderBytes uint64
	// PayloadBits counts the code bits, end-of-stream included, padding excluded.
	PayloadBits uint64
	// ContainerBytes is the size of the whole container.
	ContainerBytes uint64
	// Table is the code table that was built or read back.
	Table *CodeTable
}

// Compress reads all of r twice, once to count byte frequencies and once to
// encode, and writes the container to w. The code table is derived and
// checked before the first byte is written.
func Compress(r io.ReadSeeker, w io.Writer) (Stats, error) {
	freqs, err := CountFrequencies(r)
	if err != nil {
		return Stats{}, err
	}

	tree := BuildTree(freqs.Compact())
	table, err := BuildCodeTable(tree)
	if err != nil {
		return Stats{}, err
	}

	bw := bufio.NewWriter(w)
	sw := archive.NewStructuredWriter(bw)

	if err := writeHeader(sw, table); err != nil {
		return Stats{}, fmt.Errorf("%w: writing header: %w", ErrIO, err)
	}
	stats := Stats{HeaderBytes: sw.Offset(), Table: table}

	packer := newBitPacker(sw)
	br := bufio.NewReader(r)
	for {
		ch, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return Stats{}, fmt.Errorf("%w: reading input: %w", ErrIO, err)
		}

		code, ok := table.Lookup(Symbol(ch))
		if !ok {
			return Stats{}, fmt.Errorf("%w: input changed between passes, byte %s was not counted", ErrIO, Symbol(ch))
		}
		if err := packer.writeCode(code); err != nil {
			return Stats{}, fmt.Errorf("%w: writing payload: %w", ErrIO, err)
		}
		stats.InputBytes++
	}

	eos, _ := table.Lookup(EndOfStream)
	if err := packer.writeCode(eos); err != nil {
		return Stats{}, fmt.Errorf("%w: writing payload: %w", ErrIO, err)
	}
	if err := packer.Close(); err != nil {
		return Stats{}, fmt.Errorf("%w: writing payload: %w", ErrIO, err)
	}
	if err := bw.Flush(); err != nil {
		return Stats{}, fmt.Errorf("%w: flushing output: %w", ErrIO, err)
	}

	if stats.InputBytes != freqs.Total() {
		return Stats{}, fmt.Errorf("%w: input changed between passes, counted %d bytes, encoded %d", ErrIO, freqs.Total(), stats.InputBytes)
	}

	stats.PayloadBits = packer.bits
	stats.ContainerBytes = sw.Offset()
	return stats, nil
}

// Decompress reads a container from r and writes the original bytes to w.
// Output is only written once the whole payload decoded successfully.
func Decompress(r io.Reader, w io.Writer) (Stats, error) {
	sr := archive.NewStructuredReader(bufio.NewReader(r))

	table, err := readHeader(sr)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{HeaderBytes: sr.Offset(), Table: table}

	decoder, err := NewDecoder(table, sr)
	if err != nil {
		return Stats{}, err
	}

	var out bytes.Buffer
	for res := range decoder.Symbols() {
		if res.IsErr() {
			return Stats{}, res.Err
		}
		out.WriteByte(byte(res.Unwrap()))
	}

	if _, err := w.Write(out.Bytes()); err != nil {
		return Stats{}, fmt.Errorf("%w: writing output: %w", ErrIO, err)
	}

	stats.InputBytes = uint64(out.Len())
	stats.PayloadBits = decoder.PayloadBits()
	stats.ContainerBytes = sr.Offset()
	return stats, nil
}

// Encode compresses data held in memory.
func Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Compress(bytes.NewReader(data), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode decompresses a container held in memory.
func Decode(container []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Decompress(bytes.NewReader(container), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
