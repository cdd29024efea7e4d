// Package config defines the tunable parameters of the proof-of-work scheme.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds all public parameters. Memory is laid out as ChunkCount
// chunks of ChunkSize 64-byte elements; a proof consults SearchLength
// elements and must clear DifficultyBits leading zero bits of Omega.
type Config struct {
	ChunkSize       uint64 `json:"chunk_size"`       // elements per chunk (l)
	ChunkCount      uint64 `json:"chunk_count"`      // number of chunks (P)
	AntecedentCount uint64 `json:"antecedent_count"` // dependencies per element (n)
	DifficultyBits  uint64 `json:"difficulty_bits"`  // required leading zeros of Omega (d)
	SearchLength    uint64 `json:"search_length"`    // leaves consulted per nonce (L)
}

// Default returns the baseline parameter set.
func Default() Config {
	return Config{
		ChunkSize:       1 << 15,
		ChunkCount:      1 << 10,
		AntecedentCount: 4,
		DifficultyBits:  24,
		SearchLength:    9,
	}
}

// MemorySize returns the total element count T = P * l.
func (c Config) MemorySize() uint64 {
	return c.ChunkCount * c.ChunkSize
}

// Validate performs consistency checks on the parameter set.
func (c Config) Validate() error {
	if c.ChunkSize == 0 {
		return fmt.Errorf("chunk_size must be >0")
	}
	if c.ChunkCount == 0 {
		return fmt.Errorf("chunk_count must be >0")
	}
	if c.AntecedentCount < 2 {
		return fmt.Errorf("antecedent_count must be >=2, got %d", c.AntecedentCount)
	}
	if c.AntecedentCount > c.ChunkSize {
		return fmt.Errorf("antecedent_count (%d) exceeds chunk_size (%d)", c.AntecedentCount, c.ChunkSize)
	}
	if c.SearchLength == 0 {
		return fmt.Errorf("search_length must be >0")
	}
	if c.DifficultyBits > 512 {
		return fmt.Errorf("difficulty_bits (%d) exceeds the omega width", c.DifficultyBits)
	}
	if c.MemorySize() < 2 {
		return fmt.Errorf("memory must hold at least 2 elements, got %d", c.MemorySize())
	}
	return nil
}

// LoadFromFile reads and validates a parameter file in JSON form.
func LoadFromFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read params: %w", err)
	}
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("parse params: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid params in %s: %w", path, err)
	}
	return c, nil
}
