package challenge

import (
	"bytes"
	"testing"
)

func TestNewCopies(t *testing.T) {
	raw := []byte{0xAA, 0xBB, 0xCC}
	id := New(raw)
	if len(id) != 3 || !bytes.Equal(id, raw) {
		t.Fatalf("id mismatch: % x", id)
	}
	raw[0] = 0
	if id[0] != 0xAA {
		t.Fatal("id must own its bytes")
	}
}

func TestRandomLength(t *testing.T) {
	a := Random(DefaultSize)
	b := Random(DefaultSize)
	if len(a) != DefaultSize || len(b) != DefaultSize {
		t.Fatalf("lengths: %d, %d", len(a), len(b))
	}
	if bytes.Equal(a, b) {
		t.Fatal("two random identifiers collided")
	}
}

func TestFromSeedDeterministic(t *testing.T) {
	a, err := FromSeed([]byte("challenge seed"), DefaultSize)
	if err != nil {
		t.Fatalf("from seed: %v", err)
	}
	b, err := FromSeed([]byte("challenge seed"), DefaultSize)
	if err != nil {
		t.Fatalf("from seed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("same seed must derive the same identifier")
	}

	c, err := FromSeed([]byte("other seed"), DefaultSize)
	if err != nil {
		t.Fatalf("from seed: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Fatal("different seeds must derive different identifiers")
	}
}
