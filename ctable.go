package fse

import "math/bits"

// symbolTransform is the per-symbol entry of a CTable's transform table,
// named symbolTT in the reference design.
type symbolTransform struct {
	deltaFindState int
	maxState       uint16
	minBitsOut     uint8
}

// CTable is the compression-side transition table: for each slot in the
// state space, the successor state reached after emitting that slot's
// symbol, plus one symbolTransform record per symbol used to locate the
// next state cheaply.
type CTable struct {
	tableLog       int
	nbSymbols      int
	nextStateTable []uint16
	symbolTT       []symbolTransform
}

// BuildCTable constructs a CTable from a normalized count vector. norm must
// have exactly nbSymbols entries and sum to 1<<tableLog.
func BuildCTable(norm []int, nbSymbols, tableLog int) (*CTable, error) {
	if tableLog > MaxTableLog || tableLog < MinTableLog {
		return nil, newError(ErrInvalidParameter, "tableLog %d out of range [%d,%d]", tableLog, MinTableLog, MaxTableLog)
	}

	tableSize := 1 << tableLog

	slot, err := spreadSymbols(norm, tableLog)
	if err != nil {
		return nil, err
	}

	// Cumulative per-symbol start offsets into nextStateTable.
	cumul := make([]int, nbSymbols+1)
	for i := 1; i < nbSymbols; i++ {
		cumul[i] = cumul[i-1] + norm[i-1]
	}
	cumul[nbSymbols] = tableSize + 1

	nextStateTable := make([]uint16, tableSize)

	for i := 0; i < tableSize; i++ {
		s := slot[i]
		nextStateTable[cumul[s]] = uint16(tableSize + i)
		cumul[s]++
	}

	symbolTT := make([]symbolTransform, nbSymbols)
	total := 0

	for s := 0; s < nbSymbols; s++ {
		switch norm[s] {
		case 0:
			// Never referenced: no source symbol maps here.
		case 1:
			symbolTT[s].minBitsOut = uint8(tableLog)
			symbolTT[s].deltaFindState = total - 1
			total++
			symbolTT[s].maxState = uint16(2*tableSize - 1)
		default:
			minBitsOut := uint8((tableLog - 1) - (bits.Len(uint(norm[s]-1)) - 1))
			symbolTT[s].minBitsOut = minBitsOut
			symbolTT[s].deltaFindState = total - norm[s]
			total += norm[s]
			symbolTT[s].maxState = uint16((norm[s] << (minBitsOut + 1)) - 1)
		}
	}

	return &CTable{
		tableLog:       tableLog,
		nbSymbols:      nbSymbols,
		nextStateTable: nextStateTable,
		symbolTT:       symbolTT,
	}, nil
}
