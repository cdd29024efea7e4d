package proof

import (
	"bytes"
	"fmt"

	"itsuku/element"
	"itsuku/memory"
	"itsuku/merkle"
)

// partialView serves the elements reconstructed from the proof. A missing
// index yields a zero element; the replayed leaf set is checked against the
// antecedent map afterwards, so a miss cannot go unreported.
type partialView struct {
	elements map[uint64]element.Element
}

func (v *partialView) GetElement(index uint64) element.Element {
	return v.elements[index]
}

// Verify checks the proof: it reconstructs every proven element from its
// antecedents, matches the leaf hashes against the opening, recomputes each
// authentication path up to the root, replays the Omega walk against the
// reconstructed view, and applies the difficulty test.
func (p *Proof) Verify() error {
	cfg := p.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("proof: %w", err)
	}
	nodeSize := merkle.NodeSize(cfg)
	memorySize := cfg.MemorySize()

	// Reconstruct the proven elements.
	partialMemory := make(map[uint64]element.Element, len(p.LeafAntecedents))
	for leaf, antecedents := range p.LeafAntecedents {
		position := leaf % cfg.ChunkSize
		expected := cfg.AntecedentCount
		if position < cfg.AntecedentCount {
			expected = 1
		}
		if uint64(len(antecedents)) != expected {
			return ErrInvalidAntecedentCount
		}
		if expected == 1 {
			partialMemory[leaf] = antecedents[0]
		} else {
			partialMemory[leaf] = memory.Compress(antecedents, leaf, p.ChallengeID)
		}
	}

	// Match each reconstructed element against its opened leaf hash.
	recomputed := make(map[uint64][]byte, len(p.TreeOpening))
	leafHash := make([]byte, nodeSize)
	for leaf, e := range partialMemory {
		nodeIndex := memorySize - 1 + leaf
		merkle.LeafHash(p.ChallengeID, &e, leafHash)

		opened, ok := p.TreeOpening[nodeIndex]
		if !ok {
			return ErrMissingOpeningForLeaf
		}
		if !bytes.Equal(opened, leafHash) {
			return ErrLeafHashMismatch
		}
		recomputed[nodeIndex] = append([]byte(nil), leafHash...)
	}

	root, ok := p.TreeOpening[0]
	if !ok {
		return ErrMissingMerkleRoot
	}

	// Recompute every authentication path bottom-up, cross-checking each
	// internal node against the opening.
	for leaf := range partialMemory {
		if err := p.recomputePath(memorySize-1+leaf, nodeSize, recomputed); err != nil {
			return err
		}
	}

	// Replay the Omega walk against the reconstructed view.
	view := &partialView{elements: partialMemory}
	omega, selected, _ := Omega(cfg, p.ChallengeID, view, PadRoot(root), memorySize, p.Nonce)

	for _, leaf := range selected {
		if _, ok := p.LeafAntecedents[leaf]; !ok {
			return ErrUnprovenLeafInPath
		}
	}

	if LeadingZeros(omega[:]) < int(cfg.DifficultyBits) {
		return ErrDifficultyNotMet
	}
	return nil
}

// recomputePath walks from the given leaf node to the root, recomputing
// each parent from its children. Children come from already-recomputed
// nodes where available and from the opening otherwise, so a forged sibling
// or internal hash surfaces as a mismatch at its parent.
func (p *Proof) recomputePath(node uint64, nodeSize int, recomputed map[uint64][]byte) error {
	lookup := func(index uint64) ([]byte, bool) {
		if h, ok := recomputed[index]; ok {
			return h, true
		}
		h, ok := p.TreeOpening[index]
		return h, ok
	}

	parentHash := make([]byte, nodeSize)
	for node != 0 {
		parent := (node - 1) / 2
		left, right := merkle.ChildrenOf(parent)

		leftHash, leftOK := lookup(left)
		rightHash, rightOK := lookup(right)
		if !leftOK || !rightOK {
			return ErrMissingChildNode
		}
		merkle.IntermediateHash(p.ChallengeID, leftHash, rightHash, parentHash)

		opened, ok := p.TreeOpening[parent]
		if !ok {
			return ErrMalformedProofPath
		}
		if !bytes.Equal(opened, parentHash) {
			return ErrIntermediateHashMismatch
		}
		recomputed[parent] = append([]byte(nil), parentHash...)
		node = parent
	}
	return nil
}
