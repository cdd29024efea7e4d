// Package xof adapts BLAKE3 to the streaming finalise-to-N-bytes contract
// used throughout the scheme: init, any number of updates, then a single
// extraction of the requested output length.
package xof

import "lukechampine.com/blake3"

// Hasher is a streaming hash with XOF-style finalisation. The zero value is
// not usable; obtain one with New.
type Hasher struct {
	h *blake3.Hasher
}

// New returns a fresh unkeyed hasher.
func New() *Hasher {
	return &Hasher{h: blake3.New(64, nil)}
}

// Write absorbs p into the hash state.
func (h *Hasher) Write(p []byte) {
	h.h.Write(p)
}

// SumInto fills out with the first len(out) bytes of the extendable output.
// The state is left intact; call Reset before reuse.
func (h *Hasher) SumInto(out []byte) {
	h.h.XOF().Read(out)
}

// Reset returns the hasher to its initial state.
func (h *Hasher) Reset() {
	h.h.Reset()
}

// Sum hashes data in one shot and fills out with the truncated digest.
func Sum(out, data []byte) {
	h := blake3.New(len(out), nil)
	h.Write(data)
	h.XOF().Read(out)
}
