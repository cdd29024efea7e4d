// Package merkle implements the authentication tree over the memory array:
// a complete binary tree of truncated hashes stored as a flat buffer of
// 2T-1 nodes, the root at index 0 and the leaf for global element g at
// index T-1+g.
package merkle

import (
	"fmt"
	"math"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/element"
	"itsuku/memory"
	"itsuku/xof"
)

// elementHashCost is the relative cost factor of a leaf hash in the
// node-size derivation.
const elementHashCost = 1.0

// NodeSize returns the node width M in bytes for the given parameters:
// ceil((d + log2(1 + cx*L + ceil(L/2)) + 6) / 8).
func NodeSize(cfg config.Config) int {
	searchLength := float64(cfg.SearchLength)
	logOperand := elementHashCost*searchLength + math.Ceil(searchLength*0.5)
	logValue := math.Log2(1.0 + logOperand)
	return int(math.Ceil((float64(cfg.DifficultyBits) + logValue + 6.0) / 8.0))
}

// Tree is the flat node store. It is mutated only by ComputeLeafHashes and
// ComputeIntermediateNodes; afterwards it is read-only.
type Tree struct {
	cfg      config.Config
	nodeSize int
	nodes    []byte
}

// New allocates a zeroed tree for the given parameters.
func New(cfg config.Config) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("merkle: %w", err)
	}
	nodeSize := NodeSize(cfg)
	nodeCount := 2*cfg.MemorySize() - 1
	return &Tree{
		cfg:      cfg,
		nodeSize: nodeSize,
		nodes:    make([]byte, nodeCount*uint64(nodeSize)),
	}, nil
}

// Build is the convenience constructor: allocate, hash all leaves, then all
// intermediate nodes.
func Build(cfg config.Config, id challenge.ID, mem *memory.Memory) (*Tree, error) {
	t, err := New(cfg)
	if err != nil {
		return nil, err
	}
	t.ComputeLeafHashes(id, mem)
	t.ComputeIntermediateNodes(id)
	return t, nil
}

// NodeSize returns the node width in bytes.
func (t *Tree) NodeSize() int {
	return t.nodeSize
}

// NodeCount returns the number of nodes, 2T-1.
func (t *Tree) NodeCount() uint64 {
	return uint64(len(t.nodes)) / uint64(t.nodeSize)
}

// Node returns the stored hash of the node at the given index, or nil when
// the index is out of range. The returned slice aliases the tree's buffer.
func (t *Tree) Node(index uint64) []byte {
	offset := index * uint64(t.nodeSize)
	if offset+uint64(t.nodeSize) > uint64(len(t.nodes)) {
		return nil
	}
	return t.nodes[offset : offset+uint64(t.nodeSize)]
}

// Root returns the root hash (node 0).
func (t *Tree) Root() []byte {
	return t.Node(0)
}

// LeafHash writes the node hash of a memory element into out, which must
// have length nodeSize.
func LeafHash(id challenge.ID, e *element.Element, out []byte) {
	elementBytes := e.LEBytes()
	h := xof.New()
	h.Write(elementBytes[:])
	h.Write(id)
	h.SumInto(out)
}

// ComputeLeafHashes populates the T leaf nodes from the memory array.
func (t *Tree) ComputeLeafHashes(id challenge.ID, mem *memory.Memory) {
	elementCount := t.cfg.MemorySize()
	firstLeaf := elementCount - 1

	for i := uint64(0); i < elementCount; i++ {
		e := mem.GetElement(i)
		LeafHash(id, &e, t.Node(firstLeaf+i))
	}
}

// ChildrenOf returns the child indices of a parent node.
func ChildrenOf(index uint64) (left, right uint64) {
	return 2*index + 1, 2*index + 2
}

// IntermediateHash writes H(left || right || id) truncated to len(out).
func IntermediateHash(id challenge.ID, left, right, out []byte) {
	h := xof.New()
	h.Write(left)
	h.Write(right)
	h.Write(id)
	h.SumInto(out)
}

// ComputeIntermediateNodes populates the internal nodes from index T-2 down
// to the root. Each node, the root included, is hashed exactly once.
func (t *Tree) ComputeIntermediateNodes(id challenge.ID) {
	totalElements := t.cfg.MemorySize()
	for parent := int64(totalElements) - 2; parent >= 0; parent-- {
		left, right := ChildrenOf(uint64(parent))
		IntermediateHash(id, t.Node(left), t.Node(right), t.Node(uint64(parent)))
	}
}

// TraceNode inserts into out copies of the node at index, its sibling, and
// every ancestor with its sibling up to and including the root. The root
// has no sibling and none is inserted for it.
func (t *Tree) TraceNode(index uint64, out map[uint64][]byte) {
	if index >= t.NodeCount() {
		return
	}
	for {
		t.insertNodeCopy(out, index)
		if index == 0 {
			return
		}
		sibling := index + 1
		if index%2 == 0 {
			sibling = index - 1
		}
		t.insertNodeCopy(out, sibling)
		index = (index - 1) / 2
	}
}

func (t *Tree) insertNodeCopy(out map[uint64][]byte, index uint64) {
	node := t.Node(index)
	if node == nil {
		return
	}
	cp := make([]byte, t.nodeSize)
	copy(cp, node)
	out[index] = cp
}
