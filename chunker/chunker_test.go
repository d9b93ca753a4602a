package chunker

import (
	"fmt"
	"testing"

	"github.com/transsrt/transsrt/srtfile"
)

func makeEntries(n int) []srtfile.Entry {
	entries := make([]srtfile.Entry, n)
	for i := range entries {
		entries[i] = srtfile.Entry{
			Index: i + 1,
			Start: srtfile.Timestamp(0),
			End:   srtfile.Timestamp(0),
			Lines: []string{fmt.Sprintf("line %d", i+1)},
		}
	}
	return entries
}

func TestSplit120By50Overlap3(t *testing.T) {
	chunks, err := Split(makeEntries(120), 50, 3)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("chunks len = %d, want 3", len(chunks))
	}

	wantCore := [][2]int{{0, 50}, {50, 100}, {100, 120}}
	for i, c := range chunks {
		if c.CoreStart != wantCore[i][0] || c.CoreEnd != wantCore[i][1] {
			t.Fatalf("chunk %d core = [%d,%d), want [%d,%d)", i, c.CoreStart, c.CoreEnd, wantCore[i][0], wantCore[i][1])
		}
		if c.Index != i+1 || c.Total != 3 {
			t.Fatalf("chunk %d numbering = %d/%d", i, c.Index, c.Total)
		}
	}

	// Middle chunk's window reaches entries 47..102 (positions).
	mid := chunks[1]
	if mid.WindowStart != 47 {
		t.Fatalf("mid.WindowStart = %d, want 47", mid.WindowStart)
	}
	if got := len(mid.Entries); got != 56 {
		t.Fatalf("mid window len = %d, want 56", got)
	}
	if before := mid.ContextBefore(); len(before) != 3 || before[0].Index != 48 {
		t.Fatalf("mid context before = %d entries, first index %d", len(before), before[0].Index)
	}
	if after := mid.ContextAfter(); len(after) != 3 || after[2].Index != 103 {
		t.Fatalf("mid context after = %d entries, last index %d", len(after), after[len(after)-1].Index)
	}

	// Last chunk's window is clipped at the end of the sequence.
	last := chunks[2]
	if last.WindowStart != 97 {
		t.Fatalf("last.WindowStart = %d, want 97", last.WindowStart)
	}
	if got := last.Entries[len(last.Entries)-1].Index; got != 120 {
		t.Fatalf("last window final index = %d, want 120", got)
	}
	if len(last.ContextAfter()) != 0 {
		t.Fatalf("last context after = %d entries, want 0", len(last.ContextAfter()))
	}
}

func TestSplitFewerThanSize(t *testing.T) {
	chunks, err := Split(makeEntries(5), 50, 3)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("chunks len = %d, want 1", len(chunks))
	}
	c := chunks[0]
	if c.CoreStart != 0 || c.CoreEnd != 5 {
		t.Fatalf("core = [%d,%d), want [0,5)", c.CoreStart, c.CoreEnd)
	}
	if len(c.ContextBefore()) != 0 || len(c.ContextAfter()) != 0 {
		t.Fatal("single chunk must have no overlap context")
	}
}

func TestSplitCoreRangesCoverExactlyOnce(t *testing.T) {
	cases := []struct{ n, size, overlap int }{
		{1, 1, 0},
		{7, 3, 1},
		{10, 3, 2},
		{50, 50, 3},
		{51, 50, 3},
		{120, 50, 3},
		{200, 7, 6},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("n=%d size=%d overlap=%d", tc.n, tc.size, tc.overlap), func(t *testing.T) {
			chunks, err := Split(makeEntries(tc.n), tc.size, tc.overlap)
			if err != nil {
				t.Fatalf("Split error: %v", err)
			}
			covered := make([]int, tc.n)
			for _, c := range chunks {
				for pos := c.CoreStart; pos < c.CoreEnd; pos++ {
					covered[pos]++
				}
				if got := len(c.Core()); got != c.CoreEnd-c.CoreStart {
					t.Fatalf("Core() len = %d, want %d", got, c.CoreEnd-c.CoreStart)
				}
			}
			for pos, count := range covered {
				if count != 1 {
					t.Fatalf("position %d covered %d times", pos, count)
				}
			}
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	entries := makeEntries(33)
	a, err := Split(entries, 10, 2)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	b, err := Split(entries, 10, 2)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("lens differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].CoreStart != b[i].CoreStart || a[i].CoreEnd != b[i].CoreEnd || a[i].WindowStart != b[i].WindowStart {
			t.Fatalf("chunk %d boundaries differ", i)
		}
	}
}

func TestSplitValidation(t *testing.T) {
	entries := makeEntries(10)
	if _, err := Split(nil, 5, 1); err == nil {
		t.Fatal("empty entries: want error")
	}
	if _, err := Split(entries, 0, 0); err == nil {
		t.Fatal("zero size: want error")
	}
	if _, err := Split(entries, 5, 5); err == nil {
		t.Fatal("overlap == size: want error")
	}
	if _, err := Split(entries, 5, -1); err == nil {
		t.Fatal("negative overlap: want error")
	}
}
