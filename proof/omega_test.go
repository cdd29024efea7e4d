package proof

import (
	"testing"

	"itsuku/challenge"
	"itsuku/config"
	"itsuku/memory"
	"itsuku/merkle"
)

func TestLeadingZeros(t *testing.T) {
	cases := []struct {
		b    []byte
		want int
	}{
		{[]byte{0x00, 0x00, 0x00, 0x00}, 32},
		{[]byte{0x00, 0x00, 0x80, 0x00}, 16},
		{[]byte{0x00, 0x01, 0x00, 0x00}, 15},
		{[]byte{0x10, 0x00, 0x00, 0x00}, 3},
		{[]byte{0xFF}, 0},
		{[]byte{}, 0},
	}
	for _, tc := range cases {
		if got := LeadingZeros(tc.b); got != tc.want {
			t.Fatalf("LeadingZeros(% x): got %d, want %d", tc.b, got, tc.want)
		}
	}
}

func TestPadRoot(t *testing.T) {
	padded := PadRoot([]byte{0xAA, 0xBB, 0xCC})
	if padded[0] != 0xAA || padded[1] != 0xBB || padded[2] != 0xCC {
		t.Fatalf("prefix not copied: % x", padded[:4])
	}
	for i := 3; i < OmegaSize; i++ {
		if padded[i] != 0 {
			t.Fatalf("byte %d not zero-padded", i)
		}
	}
}

func TestOmegaDeterminism(t *testing.T) {
	cfg := config.Default()
	cfg.ChunkCount = 2
	cfg.ChunkSize = 8
	id := testChallenge()

	mem, err := memory.New(cfg)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	mem.Build(id)
	tree, err := merkle.Build(cfg, id, mem)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}

	root := PadRoot(tree.Root())
	omega1, selected1, path1 := Omega(cfg, id, mem, root, cfg.MemorySize(), 42)
	omega2, selected2, path2 := Omega(cfg, id, mem, root, cfg.MemorySize(), 42)

	if omega1 != omega2 {
		t.Fatal("omega differs across identical computations")
	}
	if len(selected1) != int(cfg.SearchLength) || len(path1) != int(cfg.SearchLength)+1 {
		t.Fatalf("unexpected lengths: %d selected, %d path hashes", len(selected1), len(path1))
	}
	for j := range selected1 {
		if selected1[j] != selected2[j] {
			t.Fatalf("selected leaf %d differs", j)
		}
		if selected1[j] >= cfg.MemorySize() {
			t.Fatalf("selected leaf %d out of range: %d", j, selected1[j])
		}
	}
	for j := range path1 {
		if path1[j] != path2[j] {
			t.Fatalf("path hash %d differs", j)
		}
	}
}

func TestOmegaDependsOnNonce(t *testing.T) {
	cfg := config.Default()
	cfg.ChunkCount = 2
	cfg.ChunkSize = 8
	id := testChallenge()

	mem, err := memory.New(cfg)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	mem.Build(id)
	tree, err := merkle.Build(cfg, id, mem)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}

	root := PadRoot(tree.Root())
	omega1, _, _ := Omega(cfg, id, mem, root, cfg.MemorySize(), 1)
	omega2, _, _ := Omega(cfg, id, mem, root, cfg.MemorySize(), 2)
	if omega1 == omega2 {
		t.Fatal("omega must differ across nonces")
	}
}

func testChallenge() challenge.ID {
	b := make([]byte, 64)
	for i := range b {
		b[i] = byte(i)
	}
	return challenge.New(b)
}
