package random

import (
	"bytes"
	"errors"
	"testing"
)

func TestSeedFromReadsLittleEndian(t *testing.T) {
	seed, err := seedFrom(bytes.NewReader([]byte{1, 0, 0, 0, 0, 0, 0, 0}))
	if err != nil {
		t.Fatalf("seedFrom: %v", err)
	}
	if seed != 1 {
		t.Fatalf("seed = %d, want 1", seed)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestSeedFromReaderError(t *testing.T) {
	if _, err := seedFrom(failingReader{}); err == nil {
		t.Fatal("expected read error")
	}
	if _, err := seedFrom(bytes.NewReader([]byte{1, 2})); err == nil {
		t.Fatal("expected short read error")
	}
}

func TestNewRandKeepsExplicitSeed(t *testing.T) {
	first, seed, err := NewRand(42)
	if err != nil {
		t.Fatalf("NewRand: %v", err)
	}
	if seed != 42 {
		t.Fatalf("seed = %d, want 42", seed)
	}
	second, _, err := NewRand(42)
	if err != nil {
		t.Fatalf("NewRand: %v", err)
	}
	for i := 0; i < 8; i++ {
		if a, b := first.Uint32(), second.Uint32(); a != b {
			t.Fatalf("draw %d differs: %d != %d", i, a, b)
		}
	}
}

func TestNewRandReplacesZeroSeed(t *testing.T) {
	rng, seed, err := NewRand(0)
	if err != nil {
		t.Fatalf("NewRand: %v", err)
	}
	if rng == nil {
		t.Fatal("expected generator")
	}
	if seed == 0 {
		t.Fatal("expected a fresh non-zero seed")
	}
}
