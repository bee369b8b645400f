package agg

import (
	"fmt"
	"strings"
	"testing"
)

func checkPartitions(t *testing.T, buf []byte, parts []Partition) {
	t.Helper()
	if len(parts) == 0 {
		t.Fatal("no partitions")
	}
	if parts[0].Start != 0 {
		t.Errorf("first partition starts at %d", parts[0].Start)
	}
	if parts[len(parts)-1].End != len(buf) {
		t.Errorf("last partition ends at %d, want %d", parts[len(parts)-1].End, len(buf))
	}
	for i, p := range parts {
		if p.Start > p.End {
			t.Errorf("partition %d inverted: %+v", i, p)
		}
		if i > 0 && parts[i-1].End != p.Start {
			t.Errorf("gap between partition %d and %d", i-1, i)
		}
		if p.Start > 0 && p.Start < len(buf) && buf[p.Start-1] != '\n' {
			t.Errorf("partition %d starts mid-record at %d", i, p.Start)
		}
	}
}

func TestPlanPartitions(t *testing.T) {
	inputs := []string{
		"",
		"a;1.0\n",
		"a;1.0\nb;2.0\n",
		"a;1.0\nb;2.0\nc;3.0\nd;4.0\ne;5.0\n",
		"a;1.0\nb;2.0\nc;3.0\nd;4.0\ne;5.0", // no trailing newline
		strings.Repeat("some_station;12.3\nother;-4.5\n", 100),
	}
	for _, in := range inputs {
		for _, lanes := range []int{1, 2, 3, 4, 5, 7, 12, 64} {
			t.Run(fmt.Sprintf("len=%d/lanes=%d", len(in), lanes), func(t *testing.T) {
				buf := []byte(in)
				parts := planPartitions(buf, lanes)
				if len(parts) != lanes {
					t.Fatalf("got %d partitions, want %d", len(parts), lanes)
				}
				checkPartitions(t, buf, parts)
			})
		}
	}
}

func TestPlanPartitionsSingleLongRecord(t *testing.T) {
	// no separator before the end: internal boundaries degenerate to the
	// buffer end instead of splitting the record
	buf := []byte("one_enormous_key_with_no_newline_anywhere;5.5")
	parts := planPartitions(buf, 4)
	checkPartitions(t, buf, parts)
	if parts[0].End != len(buf) {
		t.Errorf("first partition should absorb the whole record, got %+v", parts[0])
	}
	for i := 1; i < len(parts); i++ {
		if parts[i].Start != parts[i].End {
			t.Errorf("partition %d should be empty: %+v", i, parts[i])
		}
	}
}

func TestPlanPartitionsRemainder(t *testing.T) {
	// nominal sizes are equal except the last lane, which absorbs the
	// remainder before boundary adjustment
	buf := []byte(strings.Repeat("k;1.1\n", 10)) // 60 bytes
	parts := planPartitions(buf, 4)              // nominal 15, boundaries align to 18, 30, 48
	checkPartitions(t, buf, parts)
	for i, want := range []Partition{{0, 18}, {18, 30}, {30, 48}, {48, 60}} {
		if parts[i] != want {
			t.Errorf("partition %d = %+v, want %+v", i, parts[i], want)
		}
	}
}
