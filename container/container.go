// Package container implements fsecli's multi-block wrapper format: a
// small sequence of (originalSize, checksum, block) entries laid out as a
// bitstream via the bitstream package, distinct from and layered outside
// the fse package's own per-block wire format.
package container

import (
	"errors"
	"io"

	"github.com/neal-burns/FiniteStateEntropy/bitstream"
)

var magic = [4]byte{'F', 'S', 'E', '1'}

const bufferSize = 1 << 16

// Entry is one block's container record.
type Entry struct {
	OriginalSize int
	Checksum     uint64
	Block        []byte
}

// Write serializes entries to w as a container and closes the underlying
// bitstream (which in turn flushes w, but does not close w itself).
func Write(w io.WriteCloser, entries []Entry) error {
	obs, err := bitstream.NewDefaultOutputBitStream(w, bufferSize)
	if err != nil {
		return err
	}

	obs.WriteArray(magic[:], 32)
	obs.WriteBits(uint64(len(entries)), 32)

	for _, e := range entries {
		obs.WriteBits(uint64(e.OriginalSize), 32)
		obs.WriteBits(e.Checksum, 64)
		obs.WriteBits(uint64(len(e.Block)), 32)

		if len(e.Block) > 0 {
			obs.WriteArray(e.Block, uint(len(e.Block))*8)
		}
	}

	return obs.Close()
}

// Read parses a container previously produced by Write.
func Read(r io.ReadCloser) ([]Entry, error) {
	ibs, err := bitstream.NewDefaultInputBitStream(r, bufferSize)
	if err != nil {
		return nil, err
	}

	var got [4]byte
	ibs.ReadArray(got[:], 32)

	if got != magic {
		return nil, errors.New("container: bad magic, not an fsecli container")
	}

	count := int(ibs.ReadBits(32))
	entries := make([]Entry, count)

	for i := range entries {
		entries[i].OriginalSize = int(ibs.ReadBits(32))
		entries[i].Checksum = ibs.ReadBits(64)
		blockLen := int(ibs.ReadBits(32))

		if blockLen > 0 {
			entries[i].Block = make([]byte, blockLen)
			ibs.ReadArray(entries[i].Block, uint(blockLen)*8)
		}
	}

	return entries, ibs.Close()
}
