package huffman

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/ZaninAndrea/huffman/pkg/containers"
)

// trieNode is one state of the prefix matcher. A node with a symbol is a
// complete code; its children are unused.
type trieNode struct {
	child  [2]int
	symbol Symbol
	leaf   bool
}

// decodeTrie matches accumulated bits against a code table. Following the
// bits of a code from the root lands on its leaf exactly when both the
// length and the bit pattern agree, the same match a linear scan over the
// table would find.
type decodeTrie struct {
	nodes []trieNode
}

func newDecodeTrie(table *CodeTable) (*decodeTrie, error) {
	t := &decodeTrie{nodes: []trieNode{{child: [2]int{noChild, noChild}}}}

	for _, e := range table.Entries() {
		current := 0
		for i := 0; i < e.Code.Length; i++ {
			if t.nodes[current].leaf {
				return nil, fmt.Errorf("%w: code of %s extends the code of %s", ErrFormat, e.Symbol, t.nodes[current].symbol)
			}

			b := 0
			if e.Code.Bit(i) {
				b = 1
			}
			next := t.nodes[current].child[b]
			if next == noChild {
				next = len(t.nodes)
				t.nodes = append(t.nodes, trieNode{child: [2]int{noChild, noChild}})
				t.nodes[current].child[b] = next
			}
			current = next
		}

		if t.nodes[current].leaf {
			return nil, fmt.Errorf("%w: %s and %s share a code", ErrFormat, e.Symbol, t.nodes[current].symbol)
		}
		if t.nodes[current].child != [2]int{noChild, noChild} {
			return nil, fmt.Errorf("%w: code of %s is a prefix of another code", ErrFormat, e.Symbol)
		}
		t.nodes[current].leaf = true
		t.nodes[current].symbol = e.Symbol
	}

	return t, nil
}

// Decoder turns a payload back into symbols using a reconstructed code table.
type Decoder struct {
	trie     *decodeTrie
	unpacker *bitUnpacker
}

// NewDecoder prepares a decoder reading the payload from r.
func NewDecoder(table *CodeTable, r io.Reader) (*Decoder, error) {
	if _, ok := table.Lookup(EndOfStream); !ok {
		return nil, fmt.Errorf("%w: code table has no end-of-stream entry", ErrFormat)
	}

	trie, err := newDecodeTrie(table)
	if err != nil {
		return nil, err
	}

	return &Decoder{trie: trie, unpacker: newBitUnpacker(r)}, nil
}

// Next returns the next decoded symbol. It returns EndOfStream once the
// end-of-stream code has been matched; the padding after it is never read.
func (d *Decoder) Next() (Symbol, error) {
	current := 0
	for depth := 0; ; depth++ {
		bit, err := d.unpacker.readBit()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: after %d payload bits", ErrTruncatedStream, d.unpacker.bits)
		} else if err != nil {
			return 0, fmt.Errorf("%w: reading payload: %w", ErrIO, err)
		}

		b := 0
		if bit {
			b = 1
		}
		next := d.trie.nodes[current].child[b]
		if next == noChild {
			return 0, fmt.Errorf("%w: bit pattern at payload bit %d matches no code", ErrFormat, d.unpacker.bits-uint64(depth)-1)
		}

		current = next
		if d.trie.nodes[current].leaf {
			return d.trie.nodes[current].symbol, nil
		}
	}
}

// Symbols returns an iterator over the decoded byte symbols. It stops after
// the end-of-stream code, which is not yielded, or after the first error.
func (d *Decoder) Symbols() iter.Seq[containers.Result[Symbol]] {
	return func(yield func(containers.Result[Symbol]) bool) {
		for {
			symbol, err := d.Next()
			if err != nil {
				yield(containers.Err[Symbol](err))
				return
			}
			if symbol == EndOfStream {
				return
			}
			if !yield(containers.Ok(symbol)) {
				return
			}
		}
	}
}

// PayloadBits returns the number of payload bits consumed so far.
func (d *Decoder) PayloadBits() uint64 {
	return d.unpacker.bits
}
