// Package memory builds and serves the deterministic element array the
// prover commits to: ChunkCount independent chunks of ChunkSize elements,
// each chunk seeded from the challenge and extended by iterated compression
// over Argon2-style antecedent selections.
package memory

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/element"
	"itsuku/xof"
)

// Memory is the full T = ChunkCount * ChunkSize element array. It is
// mutated only by Build/BuildParallel; afterwards it may be shared freely.
type Memory struct {
	cfg    config.Config
	chunks [][]element.Element
}

// New allocates a zeroed memory for the given parameters.
func New(cfg config.Config) (*Memory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}
	chunks := make([][]element.Element, cfg.ChunkCount)
	for i := range chunks {
		chunks[i] = make([]element.Element, cfg.ChunkSize)
	}
	return &Memory{cfg: cfg, chunks: chunks}, nil
}

// Config returns the parameters the memory was allocated for.
func (m *Memory) Config() config.Config {
	return m.cfg
}

// Size returns the total element count T.
func (m *Memory) Size() uint64 {
	return m.cfg.MemorySize()
}

// GetElement returns the element at the given global index, or a zero
// element when the index is out of range.
func (m *Memory) GetElement(index uint64) element.Element {
	chunk := index / m.cfg.ChunkSize
	if chunk >= m.cfg.ChunkCount {
		return element.Zero()
	}
	return m.chunks[chunk][index%m.cfg.ChunkSize]
}

// antecedentIndices fills buf with the chunk-local positions of the
// antecedents of the element at elementIndex. elementIndex must be at least
// AntecedentCount; earlier elements are seeds and have no antecedents.
func antecedentIndices(cfg config.Config, chunk []element.Element, elementIndex uint64, buf []uint64) {
	prev := chunk[elementIndex-1].LEBytes()
	a := Argon2Index(prev[:4], elementIndex)
	for k := range buf {
		buf[k] = PhiVariant(elementIndex, a, uint64(k)) % cfg.ChunkSize
	}
}

// Compress derives a new element from its antecedents, the global element
// index and the challenge: even-positioned antecedents are summed and tagged
// with the index, odd-positioned ones are summed and masked with the
// challenge, and the two halves are hashed together.
func Compress(antecedents []element.Element, globalIndex uint64, id challenge.ID) element.Element {
	sumEven := element.Zero()
	for k := 0; k < (len(antecedents)+1)/2; k++ {
		sumEven.AddAssign(&antecedents[2*k])
	}
	sumEven[0] ^= globalIndex

	sumOdd := element.Zero()
	for k := 0; k < len(antecedents)/2; k++ {
		sumOdd.AddAssign(&antecedents[2*k+1])
	}
	sumOdd.XorBytes(id)

	evenBytes := sumEven.LEBytes()
	oddBytes := sumOdd.LEBytes()

	h := xof.New()
	h.Write(evenBytes[:])
	h.Write(oddBytes[:])

	var out [element.Size]byte
	h.SumInto(out[:])
	return element.FromLEBytes(out[:])
}

// BuildChunk fills one chunk: the first AntecedentCount elements are seeded
// directly from the challenge, the rest are produced by iterated
// compression. chunk must have length cfg.ChunkSize.
func BuildChunk(cfg config.Config, chunkIndex uint64, chunk []element.Element, id challenge.ID) {
	n := cfg.AntecedentCount

	var idxBytes, chunkIdxBytes [8]byte
	binary.LittleEndian.PutUint64(chunkIdxBytes[:], chunkIndex)
	h := xof.New()
	var out [element.Size]byte
	for i := uint64(0); i < n; i++ {
		binary.LittleEndian.PutUint64(idxBytes[:], i)
		h.Reset()
		h.Write(idxBytes[:])
		h.Write(chunkIdxBytes[:])
		h.Write(id)
		h.SumInto(out[:])
		chunk[i] = element.FromLEBytes(out[:])
	}

	indices := make([]uint64, n)
	antecedents := make([]element.Element, n)
	for i := n; i < cfg.ChunkSize; i++ {
		antecedentIndices(cfg, chunk, i, indices)
		for k, idx := range indices {
			antecedents[k] = chunk[idx]
		}
		chunk[i] = Compress(antecedents, chunkIndex*cfg.ChunkSize+i, id)
	}
}

// Build populates every chunk sequentially.
func (m *Memory) Build(id challenge.ID) {
	for c := uint64(0); c < m.cfg.ChunkCount; c++ {
		BuildChunk(m.cfg, c, m.chunks[c], id)
	}
}

// BuildParallel populates the chunks with the given number of workers.
// Chunks are independent, so the result is byte-identical to Build. A
// cancelled context stops the fan-out at the next chunk boundary and
// returns the context error.
func (m *Memory) BuildParallel(ctx context.Context, id challenge.ID, workers int) error {
	if workers <= 1 {
		for c := uint64(0); c < m.cfg.ChunkCount; c++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			BuildChunk(m.cfg, c, m.chunks[c], id)
		}
		return nil
	}

	work := make(chan uint64)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range work {
				BuildChunk(m.cfg, c, m.chunks[c], id)
			}
		}()
	}

	var err error
feed:
	for c := uint64(0); c < m.cfg.ChunkCount; c++ {
		select {
		case work <- c:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(work)
	wg.Wait()
	return err
}

// TraceElement returns the antecedents of the element at the given global
// index: the element itself for seed positions, the AntecedentCount
// dependencies otherwise.
func (m *Memory) TraceElement(index uint64) ([]element.Element, error) {
	chunkIndex := index / m.cfg.ChunkSize
	if chunkIndex >= m.cfg.ChunkCount {
		return nil, fmt.Errorf("memory: element index %d out of range", index)
	}
	chunk := m.chunks[chunkIndex]
	elementIndex := index % m.cfg.ChunkSize

	if elementIndex < m.cfg.AntecedentCount {
		return []element.Element{chunk[elementIndex]}, nil
	}

	indices := make([]uint64, m.cfg.AntecedentCount)
	antecedentIndices(m.cfg, chunk, elementIndex, indices)
	antecedents := make([]element.Element, len(indices))
	for k, idx := range indices {
		antecedents[k] = chunk[idx]
	}
	return antecedents, nil
}
