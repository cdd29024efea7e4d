package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.ChunkSize != 32768 {
		t.Fatalf("chunk_size: got %d, want 32768", c.ChunkSize)
	}
	if c.ChunkCount != 1024 {
		t.Fatalf("chunk_count: got %d, want 1024", c.ChunkCount)
	}
	if c.AntecedentCount != 4 {
		t.Fatalf("antecedent_count: got %d, want 4", c.AntecedentCount)
	}
	if c.DifficultyBits != 24 {
		t.Fatalf("difficulty_bits: got %d, want 24", c.DifficultyBits)
	}
	if c.SearchLength != 9 {
		t.Fatalf("search_length: got %d, want 9", c.SearchLength)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"zero chunk count", func(c *Config) { c.ChunkCount = 0 }},
		{"single antecedent", func(c *Config) { c.AntecedentCount = 1 }},
		{"antecedents exceed chunk", func(c *Config) { c.ChunkSize = 4; c.AntecedentCount = 5 }},
		{"zero search length", func(c *Config) { c.SearchLength = 0 }},
		{"difficulty past omega width", func(c *Config) { c.DifficultyBits = 513 }},
		{"memory below two elements", func(c *Config) { c.ChunkSize = 2; c.ChunkCount = 1; c.AntecedentCount = 2; c.ChunkSize = 1 }},
	}
	for _, tc := range cases {
		c := Default()
		tc.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: want error, got nil", tc.name)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.json")
	body := `{"chunk_size": 64, "chunk_count": 16, "antecedent_count": 4, "difficulty_bits": 8, "search_length": 9}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write params: %v", err)
	}

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.ChunkSize != 64 || c.ChunkCount != 16 || c.DifficultyBits != 8 {
		t.Fatalf("unexpected params: %+v", c)
	}
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.json")
	body := `{"chunk_size": 64, "chunk_count": 16, "antecedent_count": 1, "difficulty_bits": 8, "search_length": 9}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write params: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Fatal("want validation error, got nil")
	}
}
