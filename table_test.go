package fse

import "testing"

func TestBuildTablesRejectBadTableLog(t *testing.T) {
	norm := []int{1}

	if _, err := BuildCTable(norm, 1, MinTableLog-1); err == nil {
		t.Errorf("BuildCTable: expected an error for tableLog below MinTableLog")
	}

	if _, err := BuildDTable(norm, 1, MaxTableLog+1); err == nil {
		t.Errorf("BuildDTable: expected an error for tableLog above MaxTableLog")
	}
}

func TestCTableAndDTableSizesAndTransforms(t *testing.T) {
	tableLog := 6
	tableSize := 1 << tableLog
	norm := []int{tableSize / 2, tableSize / 4, tableSize / 8, tableSize / 8}

	ct, err := BuildCTable(norm, len(norm), tableLog)
	if err != nil {
		t.Fatalf("BuildCTable failed: %v", err)
	}

	dt, err := BuildDTable(norm, len(norm), tableLog)
	if err != nil {
		t.Fatalf("BuildDTable failed: %v", err)
	}

	if len(ct.nextStateTable) != tableSize {
		t.Errorf("nextStateTable length %d != tableSize %d", len(ct.nextStateTable), tableSize)
	}

	if len(dt.entries) != tableSize {
		t.Errorf("DTable entries length %d != tableSize %d", len(dt.entries), tableSize)
	}

	for s, n := range norm {
		if n == 0 {
			continue
		}

		tt := ct.symbolTT[s]

		if tt.minBitsOut == 0 {
			t.Errorf("symbol %d: minBitsOut should never be 0 for a populated symbol", s)
		}

		if tt.maxState == 0 && n != tableSize {
			t.Errorf("symbol %d: maxState unexpectedly 0", s)
		}
	}
}
