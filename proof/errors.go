package proof

import "errors"

// Verification errors. Each failure mode has a distinct sentinel so callers
// can match with errors.Is.
var (
	// ErrInvalidAntecedentCount reports an antecedent list whose length
	// matches neither 1 nor the configured count, or does not match what the
	// leaf's position requires.
	ErrInvalidAntecedentCount = errors.New("itsuku: invalid antecedent count")

	// ErrMissingOpeningForLeaf reports a proven leaf whose node is absent
	// from the tree opening.
	ErrMissingOpeningForLeaf = errors.New("itsuku: opening is missing a proven leaf")

	// ErrLeafHashMismatch reports a recomputed leaf hash that disagrees with
	// the opened hash.
	ErrLeafHashMismatch = errors.New("itsuku: leaf hash mismatch")

	// ErrIntermediateHashMismatch reports an internal node whose recomputed
	// hash disagrees with the opening.
	ErrIntermediateHashMismatch = errors.New("itsuku: intermediate hash mismatch")

	// ErrMissingMerkleRoot reports an opening without node 0.
	ErrMissingMerkleRoot = errors.New("itsuku: opening is missing the merkle root")

	// ErrMalformedProofPath reports an opening that does not cover a
	// required authentication path.
	ErrMalformedProofPath = errors.New("itsuku: opening does not cover an authentication path")

	// ErrUnprovenLeafInPath reports a leaf selected during the Omega replay
	// that has no antecedent entry.
	ErrUnprovenLeafInPath = errors.New("itsuku: selected leaf has no antecedent entry")

	// ErrDifficultyNotMet reports an Omega with too few leading zero bits.
	ErrDifficultyNotMet = errors.New("itsuku: omega difficulty not met")

	// ErrRequiredElementMissing names a partial-memory or resource failure
	// during verification. Verify and UnmarshalBinary do not return it: the
	// Omega replay reads a missing element as zero.
	ErrRequiredElementMissing = errors.New("itsuku: required element missing")

	// ErrMissingChildNode reports a child hash required for intermediate
	// recomputation that is absent from the opening.
	ErrMissingChildNode = errors.New("itsuku: missing child node")
)
