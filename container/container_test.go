package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neal-burns/FiniteStateEntropy/internal"
)

// Write only closes the bitstream it builds atop stream, not stream itself,
// so the same BufferStream can be read back from immediately afterward.
func TestWriteReadRoundTrip(t *testing.T) {
	entries := []Entry{
		{OriginalSize: 5, Checksum: 0x1122334455667788, Block: []byte{1, 2, 3}},
		{OriginalSize: 0, Checksum: 0, Block: nil},
		{OriginalSize: 1 << 20, Checksum: 0xdeadbeef, Block: []byte("the quick brown fox jumps over the lazy dog")},
	}

	stream := internal.NewBufferStream()
	require.NoError(t, Write(stream, entries))

	got, err := Read(stream)
	require.NoError(t, err)
	require.Len(t, got, len(entries))

	for i, e := range entries {
		require.Equal(t, e.OriginalSize, got[i].OriginalSize)
		require.Equal(t, e.Checksum, got[i].Checksum)
		require.Equal(t, e.Block, got[i].Block)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	stream := internal.NewBufferStream([]byte{'B', 'A', 'D', '!', 0, 0, 0, 0})
	_, err := Read(stream)
	require.Error(t, err)
}

func TestWriteReadEmptyContainer(t *testing.T) {
	stream := internal.NewBufferStream()
	require.NoError(t, Write(stream, nil))

	got, err := Read(stream)
	require.NoError(t, err)
	require.Empty(t, got)
}
