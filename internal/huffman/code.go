package huffman

import (
	"fmt"
	"strings"
)

// MaxCodeLength is the longest code the container's one-byte length field
// can describe. Longer codes only arise from frequency distributions that
// grow like the Fibonacci sequence over hundreds of symbols, and they are
// rejected with ErrCodeLengthOverflow rather than truncated.
const MaxCodeLength = 255

// Code is a bit string packed most-significant-bit first into Bits.
// Bits holds ceil(Length/8) bytes and the unused trailing bits are zero.
type Code struct {
	Bits   []byte
	Length int
}

func codeFromPath(path []bool) Code {
	c := Code{Bits: make([]byte, (len(path)+7)/8), Length: len(path)}
	for i, bit := range path {
		if bit {
			c.Bits[i/8] |= 0x80 >> (i % 8)
		}
	}
	return c
}

// Bit reports whether the i-th bit of the code is set.
func (c Code) Bit(i int) bool {
	return c.Bits[i/8]&(0x80>>(i%8)) != 0
}

func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(c.Length)
	for i := 0; i < c.Length; i++ {
		if c.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Entry is one row of a code table.
type Entry struct {
	Symbol Symbol
	Code   Code
}

// CodeTable maps symbols to their codes.
type CodeTable struct {
	codes   [NumSymbols]Code
	present [NumSymbols]bool
	size    int
}

// Set assigns code to symbol, replacing any previous code.
func (t *CodeTable) Set(symbol Symbol, code Code) {
	if !t.present[symbol] {
		t.size++
	}
	t.codes[symbol] = code
	t.present[symbol] = true
}

// Lookup returns the code assigned to symbol.
func (t *CodeTable) Lookup(symbol Symbol) (Code, bool) {
	return t.codes[symbol], t.present[symbol]
}

// Len returns the number of symbols in the table, EndOfStream included.
func (t *CodeTable) Len() int {
	return t.size
}

// Entries returns the table rows in ascending byte order with EndOfStream last.
func (t *CodeTable) Entries() []Entry {
	entries := make([]Entry, 0, t.size)
	for s := Symbol(0); s < NumSymbols; s++ {
		if t.present[s] {
			entries = append(entries, Entry{Symbol: s, Code: t.codes[s]})
		}
	}
	return entries
}

// String renders one "symbol code" line per entry.
func (t *CodeTable) String() string {
	var sb strings.Builder
	for _, e := range t.Entries() {
		fmt.Fprintf(&sb, "%-6s %s\n", e.Symbol, e.Code)
	}
	return sb.String()
}

// BuildCodeTable walks the tree from the root, appending 0 when descending
// left and 1 when descending right, and records the path of every leaf.
// A tree made of a single leaf assigns the code "0" to it.
func BuildCodeTable(tree *Tree) (*CodeTable, error) {
	table := &CodeTable{}

	root := &tree.nodes[tree.root]
	if root.isLeaf() {
		table.Set(root.symbol, codeFromPath([]bool{false}))
		return table, nil
	}

	path := make([]bool, 0, 32)
	if err := assignCodes(tree, tree.root, path, table); err != nil {
		return nil, err
	}
	return table, nil
}

func assignCodes(tree *Tree, index int, path []bool, table *CodeTable) error {
	n := &tree.nodes[index]
	if n.isLeaf() {
		if len(path) > MaxCodeLength {
			return fmt.Errorf("%w: symbol %s needs %d bits", ErrCodeLengthOverflow, n.symbol, len(path))
		}
		table.Set(n.symbol, codeFromPath(path))
		return nil
	}

	if err := assignCodes(tree, n.left, append(path, false), table); err != nil {
		return err
	}
	return assignCodes(tree, n.right, append(path, true), table)
}
