package proof

import (
	"encoding/binary"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/element"
	"itsuku/xof"
)

// OmegaSize is the byte length of the final Omega hash and of every hash in
// the path-hash chain.
const OmegaSize = 64

// View provides read access to memory elements during the Omega walk. The
// full memory implements it for the prover; the verifier supplies a view
// over the elements reconstructed from the proof.
type View interface {
	GetElement(index uint64) element.Element
}

// scratch holds the per-worker buffers of one Omega computation: the L
// selected leaf indices and the L+1 path hashes. Allocated once per worker,
// reused across nonces.
type scratch struct {
	selected []uint64
	path     [][OmegaSize]byte
}

func newScratch(searchLength uint64) *scratch {
	return &scratch{
		selected: make([]uint64, searchLength),
		path:     make([][OmegaSize]byte, searchLength+1),
	}
}

// calculateOmega runs the nonce-driven hash walk: Y[0] from the nonce, the
// padded root and the challenge; then L rounds each folding the previous
// hash with a challenge-masked memory element; finally the reverse-order
// reduction over the path hashes. sc.selected receives the L leaf indices.
func calculateOmega(omega *[OmegaSize]byte, sc *scratch, cfg config.Config, id challenge.ID, view View, rootPadded *[OmegaSize]byte, memorySize uint64, nonce uint64) {
	h := xof.New()

	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)
	h.Write(nonceBytes[:])
	h.Write(rootPadded[:])
	h.Write(id)
	h.SumInto(sc.path[0][:])

	for j := uint64(0); j < cfg.SearchLength; j++ {
		index := binary.LittleEndian.Uint64(sc.path[j][:8]) % memorySize
		sc.selected[j] = index

		e := view.GetElement(index)
		e.XorBytes(id)
		elementBytes := e.LEBytes()

		h.Reset()
		h.Write(sc.path[j][:])
		h.Write(elementBytes[:])
		h.SumInto(sc.path[j+1][:])
	}

	h.Reset()
	for k := cfg.SearchLength; k >= 1; k-- {
		h.Write(sc.path[k][:])
	}
	e := element.FromLEBytes(sc.path[0][:])
	e.XorBytes(id)
	elementBytes := e.LEBytes()
	h.Write(elementBytes[:])
	h.SumInto(omega[:])
}

// Omega computes the Omega hash for one nonce and returns it together with
// the selected leaf indices and the path-hash chain Y[0..L].
func Omega(cfg config.Config, id challenge.ID, view View, rootPadded [OmegaSize]byte, memorySize uint64, nonce uint64) (omega [OmegaSize]byte, selected []uint64, path [][OmegaSize]byte) {
	sc := newScratch(cfg.SearchLength)
	calculateOmega(&omega, sc, cfg, id, view, &rootPadded, memorySize, nonce)
	return omega, sc.selected, sc.path
}

// PadRoot right-pads an M-byte root hash with zeros to the 64-byte form the
// Omega computation consumes.
func PadRoot(root []byte) [OmegaSize]byte {
	var padded [OmegaSize]byte
	copy(padded[:], root)
	return padded
}

// LeadingZeros counts the leading zero bits of b, from the most significant
// bit of b[0] to the first set bit. A fully zero slice counts 8*len(b).
func LeadingZeros(b []byte) int {
	count := 0
	for _, v := range b {
		if v == 0 {
			count += 8
			continue
		}
		for bit := 7; bit >= 0; bit-- {
			if (v>>uint(bit))&1 == 1 {
				return count
			}
			count++
		}
	}
	return count
}
