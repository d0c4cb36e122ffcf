package fse

// tableStep is the canonical stride used to spread symbols across the
// tableSize state slots. Because gcd(step, tableSize) == 1 for every power
// of two tableSize in the supported range, repeatedly advancing a position
// by step (mod tableSize) visits every slot exactly once.
func tableStep(tableSize int) int {
	return (tableSize >> 1) + (tableSize >> 3) + 3
}

// spreadSymbols assigns a symbol identity to each of the tableSize slots of
// the state space, following the deterministic stride walk that both the
// encoder and the decoder must agree on. It is the single spread function
// shared by BuildCTable and BuildDTable.
func spreadSymbols(norm []int, tableLog int) ([]byte, error) {
	tableSize := 1 << tableLog
	tableMask := tableSize - 1
	step := tableStep(tableSize)

	slot := make([]byte, tableSize)
	position := 0

	for s, n := range norm {
		for i := 0; i < n; i++ {
			slot[position] = byte(s)
			position = (position + step) & tableMask
		}
	}

	if position != 0 {
		return nil, newError(ErrInvalidParameter, "symbol spread did not cover every slot (invalid normalized counts)")
	}

	return slot, nil
}
