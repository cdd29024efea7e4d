package bench

import (
	"context"
	"runtime"
	"testing"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/element"
	"itsuku/memory"
	"itsuku/merkle"
)

func benchConfig() config.Config {
	c := config.Default()
	c.ChunkCount = 16
	c.ChunkSize = 1 << 10
	return c
}

func benchChallenge() challenge.ID {
	id, _ := challenge.FromSeed([]byte("bench"), challenge.DefaultSize)
	return id
}

func BenchmarkBuildChunk(b *testing.B) {
	cfg := benchConfig()
	id := benchChallenge()
	chunk := make([]element.Element, cfg.ChunkSize)
	b.SetBytes(int64(cfg.ChunkSize) * element.Size)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		memory.BuildChunk(cfg, 0, chunk, id)
	}
}

func BenchmarkBuildParallel(b *testing.B) {
	cfg := benchConfig()
	id := benchChallenge()
	mem, err := memory.New(cfg)
	if err != nil {
		b.Fatalf("memory: %v", err)
	}
	workers := runtime.GOMAXPROCS(0)
	b.SetBytes(int64(cfg.MemorySize()) * 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := mem.BuildParallel(context.Background(), id, workers); err != nil {
			b.Fatalf("build: %v", err)
		}
	}
}

func BenchmarkTreeBuild(b *testing.B) {
	cfg := benchConfig()
	id := benchChallenge()
	mem, err := memory.New(cfg)
	if err != nil {
		b.Fatalf("memory: %v", err)
	}
	mem.Build(id)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := merkle.Build(cfg, id, mem); err != nil {
			b.Fatalf("tree: %v", err)
		}
	}
}
