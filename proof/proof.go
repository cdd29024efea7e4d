// Package proof implements the prover's nonce search, the compact proof it
// emits and the verifier that checks one: the Omega hash walk over selected
// memory elements, the antecedent and Merkle-opening tables, and the
// difficulty test.
package proof

import (
	"itsuku/challenge"
	"itsuku/config"
	"itsuku/element"
	"itsuku/memory"
	"itsuku/merkle"
)

// Proof is a complete proof-of-work solution: the parameters and challenge
// it was produced under, the winning nonce, the antecedents of every
// selected leaf, and the Merkle opening authenticating those leaves.
type Proof struct {
	Config      config.Config
	ChallengeID challenge.ID
	Nonce       uint64

	// LeafAntecedents maps each selected leaf index to the elements needed
	// to reconstruct it: the element itself for seed positions, its
	// AntecedentCount dependencies otherwise.
	LeafAntecedents map[uint64][]element.Element

	// TreeOpening maps node indices to their hashes: the root plus, for
	// each selected leaf, every node on its authentication path.
	TreeOpening map[uint64][]byte
}

// assemble records the antecedents and authentication paths of the selected
// leaves into a fresh proof.
func assemble(cfg config.Config, id challenge.ID, nonce uint64, selected []uint64, mem *memory.Memory, tree *merkle.Tree) *Proof {
	p := &Proof{
		Config:          cfg,
		ChallengeID:     challenge.New(id),
		Nonce:           nonce,
		LeafAntecedents: make(map[uint64][]element.Element, len(selected)),
		TreeOpening:     make(map[uint64][]byte),
	}
	memorySize := cfg.MemorySize()
	for _, leaf := range selected {
		antecedents, err := mem.TraceElement(leaf)
		if err == nil {
			p.LeafAntecedents[leaf] = antecedents
		}
		tree.TraceNode(memorySize-1+leaf, p.TreeOpening)
	}
	return p
}
