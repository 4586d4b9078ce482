package huffman

// noChild marks the child slots of a leaf.
const noChild = -1

type node struct {
	weight   uint64
	symbol   Symbol
	left     int
	right    int
	consumed bool
}

func (n *node) isLeaf() bool {
	return n.left == noChild && n.right == noChild
}

// Tree is a Huffman tree stored as an arena of nodes addressed by index.
// Leaves come first, in the order they were supplied, followed by one
// internal node per merge step. The root is always the last node.
type Tree struct {
	nodes []node
	root  int
}

// BuildTree appends the EndOfStream symbol (count 1) to freqs and merges
// the two lightest live nodes until a single root remains. On equal weights
// the node that comes first in the arena wins. The merged node takes the
// second lightest as its left child and the lightest as its right child.
func BuildTree(freqs []SymbolFrequency) *Tree {
	leaves := len(freqs) + 1
	t := &Tree{nodes: make([]node, 0, 2*leaves-1)}

	for _, f := range freqs {
		t.nodes = append(t.nodes, node{weight: f.Count, symbol: f.Symbol, left: noChild, right: noChild})
	}
	t.nodes = append(t.nodes, node{weight: 1, symbol: EndOfStream, left: noChild, right: noChild})

	for live := leaves; live > 1; live-- {
		smallest := t.findMin(noChild)
		second := t.findMin(smallest)

		t.nodes[smallest].consumed = true
		t.nodes[second].consumed = true
		t.nodes = append(t.nodes, node{
			weight: t.nodes[smallest].weight + t.nodes[second].weight,
			left:   second,
			right:  smallest,
		})
	}

	t.root = len(t.nodes) - 1
	return t
}

// findMin returns the index of the lightest live node other than excluded.
func (t *Tree) findMin(excluded int) int {
	minIndex := noChild
	for i := range t.nodes {
		if t.nodes[i].consumed || i == excluded {
			continue
		}
		if minIndex == noChild || t.nodes[i].weight < t.nodes[minIndex].weight {
			minIndex = i
		}
	}
	return minIndex
}

// Root returns the arena index of the root node.
func (t *Tree) Root() int {
	return t.root
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Weight returns the weight of the node at index i.
func (t *Tree) Weight(i int) uint64 {
	return t.nodes[i].weight
}
