package huffman

import (
	"io"

	"github.com/icza/bitio"
)

// bitPacker accumulates codes most-significant-bit first and emits each
// byte once eight bits are pending. It is owned by a single Compress call.
type bitPacker struct {
	w    *bitio.Writer
	bits uint64
}

func newBitPacker(w io.Writer) *bitPacker {
	return &bitPacker{w: bitio.NewWriter(w)}
}

func (p *bitPacker) writeCode(c Code) error {
	remaining := c.Length
	for i := 0; remaining > 0; i++ {
		n := min(remaining, 8)
		if err := p.w.WriteBits(uint64(c.Bits[i]>>(8-n)), uint8(n)); err != nil {
			return err
		}
		remaining -= n
	}

	p.bits += uint64(c.Length)
	return nil
}

// Close pads the last partial byte with zero bits and emits it.
// The underlying writer is left open.
func (p *bitPacker) Close() error {
	return p.w.Close()
}

// bitUnpacker hands out payload bits one at a time.
type bitUnpacker struct {
	r    *bitio.Reader
	bits uint64
}

func newBitUnpacker(r io.Reader) *bitUnpacker {
	return &bitUnpacker{r: bitio.NewReader(r)}
}

func (u *bitUnpacker) readBit() (bool, error) {
	bit, err := u.r.ReadBool()
	if err != nil {
		return false, err
	}
	u.bits++
	return bit, nil
}
