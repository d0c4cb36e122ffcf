package fse

import "math/bits"

// dTableEntry is one decode-table row: the symbol emitted from this state,
// how many fresh bits to read, and the base state those bits are added to.
type dTableEntry struct {
	newState uint16
	symbol   byte
	nbBits   uint8
}

// DTable is the decompression-side transition table: tableSize rows, one
// per state, consulted once per emitted symbol.
type DTable struct {
	tableLog int
	entries  []dTableEntry
}

// BuildDTable constructs a DTable from a normalized count vector, using the
// same slot spread as BuildCTable so encoder and decoder agree on the wire
// contract.
func BuildDTable(norm []int, nbSymbols, tableLog int) (*DTable, error) {
	if tableLog > MaxTableLog || tableLog < MinTableLog {
		return nil, newError(ErrInvalidParameter, "tableLog %d out of range [%d,%d]", tableLog, MinTableLog, MaxTableLog)
	}

	tableSize := 1 << tableLog

	slot, err := spreadSymbols(norm, tableLog)
	if err != nil {
		return nil, err
	}

	symbolNext := make([]int, nbSymbols)
	copy(symbolNext, norm)

	entries := make([]dTableEntry, tableSize)

	for i := 0; i < tableSize; i++ {
		s := slot[i]
		nextState := symbolNext[s]
		symbolNext[s]++

		nbBits := tableLog - (bits.Len(uint(nextState)) - 1)
		entries[i] = dTableEntry{
			symbol:   s,
			nbBits:   uint8(nbBits),
			newState: uint16((nextState << uint(nbBits)) - tableSize),
		}
	}

	return &DTable{tableLog: tableLog, entries: entries}, nil
}
