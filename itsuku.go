// Package itsuku implements the Itsuku memory-hard proof-of-work scheme:
// the prover derives a large deterministic element array from a challenge
// identifier, commits to it with a Merkle tree of truncated hashes, and
// sweeps nonces until the Omega hash walk over a handful of selected
// elements clears the difficulty. The emitted proof carries the winning
// nonce, the antecedents of the selected elements and the Merkle opening of
// their authentication paths; a verifier reconstructs the elements, checks
// the opening and replays the walk.
//
// The sub-packages hold the moving parts (config, element, memory, merkle,
// proof); this package ties them into the prover pipeline.
package itsuku

import (
	"context"
	"fmt"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/memory"
	"itsuku/merkle"
	"itsuku/proof"
)

// Solution bundles a found proof with the structures it was derived from,
// so callers can reuse the memory and tree across further searches.
type Solution struct {
	Proof  *proof.Proof
	Memory *memory.Memory
	Tree   *merkle.Tree
}

// Solve runs the full prover pipeline: build the memory, commit to it with
// the Merkle tree, and sweep nonces until a proof clears the difficulty.
// workers bounds the parallelism of both the build and the sweep; 1 runs
// everything sequentially. Returns an error when the context is cancelled
// or the nonce space is exhausted.
func Solve(ctx context.Context, cfg config.Config, id challenge.ID, workers int) (*Solution, error) {
	mem, err := memory.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := mem.BuildParallel(ctx, id, workers); err != nil {
		return nil, fmt.Errorf("build memory: %w", err)
	}
	tree, err := merkle.Build(cfg, id, mem)
	if err != nil {
		return nil, err
	}
	p := proof.SearchParallel(ctx, cfg, id, mem, tree, workers)
	if p == nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		return nil, fmt.Errorf("search: nonce space exhausted")
	}
	return &Solution{Proof: p, Memory: mem, Tree: tree}, nil
}
