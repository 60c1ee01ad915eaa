package keys

import "testing"

func TestDeriveEpochSeedDeterministic(t *testing.T) {
	root := make([]byte, SeedSize)
	for i := range root {
		root[i] = byte(i)
	}

	a, err := DeriveEpochSeed(root, 3)
	if err != nil {
		t.Fatalf("DeriveEpochSeed: %v", err)
	}
	b, err := DeriveEpochSeed(root, 3)
	if err != nil {
		t.Fatalf("DeriveEpochSeed: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected deterministic derivation")
	}

	c, err := DeriveEpochSeed(root, 4)
	if err != nil {
		t.Fatalf("DeriveEpochSeed: %v", err)
	}
	if string(a) == string(c) {
		t.Fatalf("expected different epochs to derive different seeds")
	}
}

func TestDeriveEpochSeedRejectsShortRoot(t *testing.T) {
	if _, err := DeriveEpochSeed(make([]byte, SeedSize-1), 0); err == nil {
		t.Fatalf("expected error for short root seed")
	}
}
