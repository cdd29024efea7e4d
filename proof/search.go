package proof

import (
	"context"
	"math"
	"sync"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/memory"
	"itsuku/merkle"
)

// Search sweeps nonces sequentially from 1 and returns the first proof
// whose Omega clears the difficulty, or nil when the nonce space is
// exhausted. Nonce 0 is skipped by convention; a verifier still accepts it.
func Search(cfg config.Config, id challenge.ID, mem *memory.Memory, tree *merkle.Tree) *Proof {
	rootPadded := PadRoot(tree.Root())
	memorySize := cfg.MemorySize()

	sc := newScratch(cfg.SearchLength)
	var omega [OmegaSize]byte
	for nonce := uint64(1); nonce != 0; nonce++ {
		calculateOmega(&omega, sc, cfg, id, mem, &rootPadded, memorySize, nonce)
		if LeadingZeros(omega[:]) < int(cfg.DifficultyBits) {
			continue
		}
		return assemble(cfg, id, nonce, sc.selected, mem, tree)
	}
	return nil
}

// SearchParallel sweeps the nonce space with the given number of workers,
// worker w taking nonces 1+w, 1+w+workers, … over the shared immutable
// memory and tree. The first valid proof wins; the remaining workers
// observe the cancellation at their next nonce boundary. Returns nil when
// the context is cancelled or the space is exhausted without a solution.
func SearchParallel(ctx context.Context, cfg config.Config, id challenge.ID, mem *memory.Memory, tree *merkle.Tree, workers int) *Proof {
	if workers < 1 {
		workers = 1
	}

	rootPadded := PadRoot(tree.Root())
	memorySize := cfg.MemorySize()
	stride := uint64(workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan *Proof, 1)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			sc := newScratch(cfg.SearchLength)
			var omega [OmegaSize]byte
			for nonce := start; ; nonce += stride {
				select {
				case <-ctx.Done():
					return
				default:
				}
				calculateOmega(&omega, sc, cfg, id, mem, &rootPadded, memorySize, nonce)
				if LeadingZeros(omega[:]) >= int(cfg.DifficultyBits) {
					select {
					case found <- assemble(cfg, id, nonce, sc.selected, mem, tree):
						cancel()
					default:
					}
					return
				}
				if nonce > math.MaxUint64-stride {
					return
				}
			}
		}(uint64(1 + w))
	}

	go func() {
		wg.Wait()
		close(found)
	}()
	return <-found
}
