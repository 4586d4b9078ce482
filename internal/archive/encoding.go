package archive

import (
	"encoding/binary"
	"io"
)

// StructuredWriter frames fixed-width integers and raw byte runs onto an
// underlying writer, keeping track of how many bytes have been written.
type StructuredWriter struct {
	w      io.Writer
	offset uint64
}

func NewStructuredWriter(w io.Writer) *StructuredWriter {
	return &StructuredWriter{w: w, offset: 0}
}

// Write writes data to the underlying writer with no special formatting.
func (sw *StructuredWriter) Write(p []byte) (int, error) {
	n, err := sw.w.Write(p)
	sw.offset += uint64(n)
	return n, err
}

// Offset returns the number of bytes written so far.
func (sw *StructuredWriter) Offset() uint64 {
	return sw.offset
}

// WriteByte writes a single byte, making StructuredWriter an io.ByteWriter.
func (sw *StructuredWriter) WriteByte(c byte) error {
	var buf [1]byte
	buf[0] = c
	_, err := sw.Write(buf[:])
	return err
}

// WriteUint8 writes an 8-bit unsigned integer to the underlying writer.
func (sw *StructuredWriter) WriteUint8(value uint8) error {
	return sw.WriteByte(value)
}

// WriteUInt16 writes a 16-bit unsigned integer to the underlying writer.
func (sw *StructuredWriter) WriteUInt16(value uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], value)
	_, err := sw.Write(buf[:])
	return err
}

// WriteRaw writes p without a length prefix. The reader must know len(p).
func (sw *StructuredWriter) WriteRaw(p []byte) error {
	_, err := sw.Write(p)
	return err
}

// StructuredReader is the mirror of StructuredWriter.
type StructuredReader struct {
	r      io.Reader
	offset uint64
}

func NewStructuredReader(r io.Reader) *StructuredReader {
	return &StructuredReader{r: r}
}

// Read reads data from the underlying reader.
func (sr *StructuredReader) Read(p []byte) (int, error) {
	n, err := sr.r.Read(p)
	sr.offset += uint64(n)
	return n, err
}

// Offset returns the number of bytes consumed so far.
func (sr *StructuredReader) Offset() uint64 {
	return sr.offset
}

// ReadByte reads a single byte from the underlying reader.
func (sr *StructuredReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(sr, buf[:])
	return buf[0], err
}

// ReadUint8 reads an 8-bit unsigned integer from the underlying reader.
func (sr *StructuredReader) ReadUint8() (uint8, error) {
	return sr.ReadByte()
}

// ReadUInt16 reads a 16-bit unsigned integer from the underlying reader.
func (sr *StructuredReader) ReadUInt16() (uint16, error) {
	var buf [2]byte
	_, err := io.ReadFull(sr, buf[:])
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadRaw reads exactly n bytes. A short read returns io.ErrUnexpectedEOF,
// or io.EOF when nothing at all was available.
func (sr *StructuredReader) ReadRaw(n int) ([]byte, error) {
	data := make([]byte, n)
	_, err := io.ReadFull(sr, data)
	if err != nil {
		return nil, err
	}
	return data, nil
}
