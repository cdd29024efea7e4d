package merkle

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/memory"
)

func testChallenge() challenge.ID {
	b := make([]byte, 64)
	for i := range b {
		b[i] = byte(i)
	}
	return challenge.New(b)
}

func smallConfig() config.Config {
	c := config.Default()
	c.ChunkCount = 2
	c.ChunkSize = 8
	c.AntecedentCount = 4
	return c
}

func builtTree(t *testing.T, cfg config.Config) (*Tree, *memory.Memory) {
	t.Helper()
	id := testChallenge()
	mem, err := memory.New(cfg)
	require.NoError(t, err)
	mem.Build(id)
	tree, err := Build(cfg, id, mem)
	require.NoError(t, err)
	return tree, mem
}

func TestNodeSize(t *testing.T) {
	cases := []struct {
		difficulty uint64
		search     uint64
		want       int
	}{
		{24, 9, 5},
		{70, 9, 10},
		{8, 9, 3},
		{14, 9, 3},
		{0, 9, 2},
		{24, 1, 4},
	}
	for _, tc := range cases {
		c := config.Default()
		c.DifficultyBits = tc.difficulty
		c.SearchLength = tc.search
		require.Equal(t, tc.want, NodeSize(c), "d=%d L=%d", tc.difficulty, tc.search)
	}
}

func TestAllocation(t *testing.T) {
	cfg := smallConfig()
	tree, err := New(cfg)
	require.NoError(t, err)

	total := cfg.MemorySize()
	require.Equal(t, 2*total-1, tree.NodeCount())
	require.Equal(t, NodeSize(cfg), tree.NodeSize())
	require.Nil(t, tree.Node(tree.NodeCount()))
}

func TestRootMatchesReference(t *testing.T) {
	tree, _ := builtTree(t, smallConfig())
	// Golden root for the small config under the 0..63 challenge.
	want, _ := hex.DecodeString("681965c4ab")
	require.Equal(t, want, tree.Root(), "root hash")
}

func TestLeafHashesMatchMemory(t *testing.T) {
	cfg := smallConfig()
	tree, mem := builtTree(t, cfg)
	id := testChallenge()

	total := cfg.MemorySize()
	buf := make([]byte, tree.NodeSize())
	for g := uint64(0); g < total; g++ {
		e := mem.GetElement(g)
		LeafHash(id, &e, buf)
		require.True(t, bytes.Equal(buf, tree.Node(total-1+g)), "leaf %d", g)
	}
}

func TestIntermediateNodesConsistent(t *testing.T) {
	cfg := smallConfig()
	tree, _ := builtTree(t, cfg)
	id := testChallenge()

	total := cfg.MemorySize()
	buf := make([]byte, tree.NodeSize())
	for parent := uint64(0); parent < total-1; parent++ {
		left, right := ChildrenOf(parent)
		IntermediateHash(id, tree.Node(left), tree.Node(right), buf)
		require.True(t, bytes.Equal(buf, tree.Node(parent)), "parent %d", parent)
	}
}

func TestTraceNodePath(t *testing.T) {
	tree, _ := builtTree(t, smallConfig()) // T = 16

	traced := make(map[uint64][]byte)
	tree.TraceNode(30, traced)

	wantIndices := []uint64{0, 1, 2, 5, 6, 13, 14, 29, 30}
	require.Len(t, traced, len(wantIndices))
	for _, idx := range wantIndices {
		got, ok := traced[idx]
		require.True(t, ok, "node %d missing from trace", idx)
		require.True(t, bytes.Equal(got, tree.Node(idx)), "node %d hash", idx)
	}
}

func TestTraceNodeRoot(t *testing.T) {
	tree, _ := builtTree(t, smallConfig())
	traced := make(map[uint64][]byte)
	tree.TraceNode(0, traced)
	require.Len(t, traced, 1)
	require.True(t, bytes.Equal(traced[0], tree.Root()))
}

func TestTraceNodeOutOfRange(t *testing.T) {
	tree, _ := builtTree(t, smallConfig())
	traced := make(map[uint64][]byte)
	tree.TraceNode(tree.NodeCount(), traced)
	require.Empty(t, traced)
}

func TestTraceCopiesDoNotAlias(t *testing.T) {
	tree, _ := builtTree(t, smallConfig())
	traced := make(map[uint64][]byte)
	tree.TraceNode(30, traced)
	traced[30][0] ^= 0xFF
	require.False(t, bytes.Equal(traced[30], tree.Node(30)), "trace must copy node bytes")
}
