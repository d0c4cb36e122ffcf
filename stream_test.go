package fse

import (
	"math/rand"
	"testing"
)

func buildTables(t *testing.T, block []byte) (*CTable, *DTable, int, int) {
	t.Helper()

	count, nbSymbols, err := Count(block)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}

	norm, tableLog, err := NormalizeCount(count[:nbSymbols], len(block), nbSymbols, 0)
	if err != nil {
		t.Fatalf("NormalizeCount failed: %v", err)
	}

	if tableLog == 0 {
		t.Fatalf("block normalized to the single-symbol degenerate case, pick a different fixture")
	}

	ct, err := BuildCTable(norm, nbSymbols, tableLog)
	if err != nil {
		t.Fatalf("BuildCTable failed: %v", err)
	}

	dt, err := BuildDTable(norm, nbSymbols, tableLog)
	if err != nil {
		t.Fatalf("BuildDTable failed: %v", err)
	}

	return ct, dt, nbSymbols, tableLog
}

func testStreamRoundTrip(t *testing.T, block []byte) {
	t.Helper()

	ct, dt, _, _ := buildTables(t, block)

	stream, err := CompressUsingCTable(ct, block)
	if err != nil {
		t.Fatalf("CompressUsingCTable failed: %v", err)
	}

	got, consumed, err := DecompressUsingDTable(dt, stream, len(block))
	if err != nil {
		t.Fatalf("DecompressUsingDTable failed: %v", err)
	}

	if consumed != len(stream) {
		t.Errorf("consumed %d bytes, stream is %d bytes", consumed, len(stream))
	}

	if string(got) != string(block) {
		t.Errorf("round-trip mismatch: got %v, want %v", got, block)
	}
}

func TestStreamRoundTripOddLength(t *testing.T) {
	block := []byte{'a', 'b', 'a', 'a', 'c', 'a', 'b'} // odd length, exercises the catch-up preamble
	testStreamRoundTrip(t, block)
}

func TestStreamRoundTripEvenLength(t *testing.T) {
	block := []byte{'a', 'b', 'a', 'a', 'c', 'a', 'b', 'b'}
	testStreamRoundTrip(t, block)
}

func TestStreamRoundTripSingleState(t *testing.T) {
	ct, dt, _, _ := buildTables(t, []byte{'a', 'a', 'a', 'a', 'b'})

	stream, err := CompressUsingCTable(ct, []byte{'a'})
	if err != nil {
		t.Fatalf("CompressUsingCTable failed: %v", err)
	}

	got, _, err := DecompressUsingDTable(dt, stream, 1)
	if err != nil {
		t.Fatalf("single-symbol single-state round-trip failed: %v", err)
	}

	if len(got) != 1 || got[0] != 'a' {
		t.Errorf("got %v, want [a]", got)
	}
}

func TestStreamRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	for trial := 0; trial < 20; trial++ {
		n := rng.Intn(4000) + 16
		block := make([]byte, n)

		for i := range block {
			block[i] = byte(rng.Intn(6)) // small alphabet, skewed normalization
		}

		testStreamRoundTrip(t, block)
	}
}
