package proof

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/element"
	"itsuku/merkle"
)

// Wire layout, little-endian throughout: the five config parameters as
// 8-byte integers, the length-prefixed challenge, the 8-byte nonce, the
// antecedent table (count, then per entry: leaf index, element count,
// elements of 64 bytes each), and the opening table (count, then per
// entry: node index and an M-byte hash, M derived from the config).

// MarshalBinary serialises the proof. Table entries are emitted in
// ascending key order so the encoding is deterministic.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, fmt.Errorf("proof: %w", err)
	}
	nodeSize := merkle.NodeSize(p.Config)

	size := 5*8 + 8 + len(p.ChallengeID) + 8 + 8 + 8
	for _, antecedents := range p.LeafAntecedents {
		size += 8 + 8 + len(antecedents)*element.Size
	}
	size += len(p.TreeOpening) * (8 + nodeSize)

	buf := make([]byte, 0, size)
	appendU64 := func(v uint64) {
		buf = binary.LittleEndian.AppendUint64(buf, v)
	}

	appendU64(p.Config.ChunkSize)
	appendU64(p.Config.ChunkCount)
	appendU64(p.Config.AntecedentCount)
	appendU64(p.Config.DifficultyBits)
	appendU64(p.Config.SearchLength)

	appendU64(uint64(len(p.ChallengeID)))
	buf = append(buf, p.ChallengeID...)
	appendU64(p.Nonce)

	appendU64(uint64(len(p.LeafAntecedents)))
	for _, leaf := range sortedKeys(p.LeafAntecedents) {
		antecedents := p.LeafAntecedents[leaf]
		appendU64(leaf)
		appendU64(uint64(len(antecedents)))
		for i := range antecedents {
			b := antecedents[i].LEBytes()
			buf = append(buf, b[:]...)
		}
	}

	appendU64(uint64(len(p.TreeOpening)))
	for _, node := range sortedKeys(p.TreeOpening) {
		hash := p.TreeOpening[node]
		if len(hash) != nodeSize {
			return nil, fmt.Errorf("proof: opening hash for node %d has %d bytes, want %d", node, len(hash), nodeSize)
		}
		appendU64(node)
		buf = append(buf, hash...)
	}
	return buf, nil
}

// UnmarshalBinary parses a proof emitted by MarshalBinary. The embedded
// config is validated before the tables are sized from it.
func (p *Proof) UnmarshalBinary(data []byte) error {
	r := byteReader{data: data}

	cfg := config.Config{
		ChunkSize:       r.u64(),
		ChunkCount:      r.u64(),
		AntecedentCount: r.u64(),
		DifficultyBits:  r.u64(),
		SearchLength:    r.u64(),
	}
	if r.err != nil {
		return fmt.Errorf("proof: truncated config: %w", r.err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("proof: %w", err)
	}
	nodeSize := merkle.NodeSize(cfg)

	idLen := r.u64()
	if idLen > uint64(len(data)) {
		return fmt.Errorf("proof: challenge length %d exceeds input", idLen)
	}
	id := challenge.New(r.bytes(int(idLen)))
	nonce := r.u64()

	leafCount := r.u64()
	if leafCount > uint64(len(data))/16 {
		return fmt.Errorf("proof: antecedent table count %d exceeds input", leafCount)
	}
	leafAntecedents := make(map[uint64][]element.Element, leafCount)
	for i := uint64(0); i < leafCount && r.err == nil; i++ {
		leaf := r.u64()
		count := r.u64()
		if count != 1 && count != cfg.AntecedentCount {
			return ErrInvalidAntecedentCount
		}
		antecedents := make([]element.Element, 0, count)
		for j := uint64(0); j < count && r.err == nil; j++ {
			antecedents = append(antecedents, element.FromLEBytes(r.bytes(element.Size)))
		}
		leafAntecedents[leaf] = antecedents
	}

	nodeCount := r.u64()
	if nodeCount > uint64(len(data))/uint64(8+nodeSize) {
		return fmt.Errorf("proof: opening table count %d exceeds input", nodeCount)
	}
	treeOpening := make(map[uint64][]byte, nodeCount)
	for i := uint64(0); i < nodeCount && r.err == nil; i++ {
		node := r.u64()
		treeOpening[node] = append([]byte(nil), r.bytes(nodeSize)...)
	}

	if r.err != nil {
		return fmt.Errorf("proof: truncated input: %w", r.err)
	}
	p.Config = cfg
	p.ChallengeID = id
	p.Nonce = nonce
	p.LeafAntecedents = leafAntecedents
	p.TreeOpening = treeOpening
	return nil
}

// WriteText emits the machine-parseable record form of the proof, one
// labelled field per line, tables in ascending key order.
func (p *Proof) WriteText(w io.Writer) error {
	nodeSize := merkle.NodeSize(p.Config)

	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], p.Nonce)

	if _, err := fmt.Fprintf(w, "STATUS: SUCCESS\nNONCE: %s\n", hex.EncodeToString(nonceBytes[:])); err != nil {
		return err
	}
	if root, ok := p.TreeOpening[0]; ok {
		fmt.Fprintf(w, "ROOT_HASH: %s\n", hex.EncodeToString(root))
	} else {
		fmt.Fprintf(w, "ROOT_HASH: MISSING\n")
	}
	fmt.Fprintf(w, "CHALLENGE_ID: %s\n", hex.EncodeToString(p.ChallengeID))
	fmt.Fprintf(w, "SEARCH_LENGTH: %d\n", p.Config.SearchLength)

	fmt.Fprintf(w, "MERKLE_PROOF_NODE_SIZE: %d\n", nodeSize)
	fmt.Fprintf(w, "MERKLE_PROOF_NODES_COUNT: %d\n", len(p.TreeOpening))
	for _, node := range sortedKeys(p.TreeOpening) {
		fmt.Fprintf(w, "NODE_INDEX: %d\n", node)
		fmt.Fprintf(w, "NODE_HASH: %s\n", hex.EncodeToString(p.TreeOpening[node]))
	}

	fmt.Fprintf(w, "LEAF_COUNT: %d\n", len(p.LeafAntecedents))
	for _, leaf := range sortedKeys(p.LeafAntecedents) {
		fmt.Fprintf(w, "LEAF_INDEX: %d\n", leaf)
		for i, antecedent := range p.LeafAntecedents[leaf] {
			b := antecedent.LEBytes()
			if _, err := fmt.Fprintf(w, "LEAF_ANTECEDENT_%d_DATA: %s\n", i, hex.EncodeToString(b[:])); err != nil {
				return err
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// byteReader is a cursor over the wire form; the first failure sticks.
type byteReader struct {
	data []byte
	err  error
}

func (r *byteReader) u64() uint64 {
	b := r.bytes(8)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *byteReader) bytes(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if len(r.data) < n {
		r.err = io.ErrUnexpectedEOF
		return make([]byte, n)
	}
	out := r.data[:n]
	r.data = r.data[n:]
	return out
}
