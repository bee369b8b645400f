package agg

import (
	"errors"
	"testing"
)

func TestTableUpsert(t *testing.T) {
	tbl := NewTable(7, PolicyProbe)
	key := []byte("k")
	h := HashFNV.hashKey(key)
	for _, v := range []int32{34, -12, 50} {
		if err := tbl.Upsert(key, h, v); err != nil {
			t.Fatal(err)
		}
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tbl.Len())
	}
	var got Stats
	tbl.Drain(func(k []byte, _ uint64, s Stats) {
		if string(k) != "k" {
			t.Errorf("drained key %q", k)
		}
		got = s
	})
	want := Stats{Min: -12, Max: 50, Sum: 72, Count: 3}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestTableProbing(t *testing.T) {
	tbl := NewTable(7, PolicyProbe)
	cap := uint64(len(tbl.slots))
	// same slot, distinct hashes
	if err := tbl.Upsert([]byte("a"), 3, 10); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Upsert([]byte("b"), 3+cap, 20); err != nil {
		t.Fatal(err)
	}
	// same hash, distinct key bytes
	if err := tbl.Upsert([]byte("c"), 3, 30); err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
	// updates must still find the right entries
	if err := tbl.Upsert([]byte("a"), 3, 11); err != nil {
		t.Fatal(err)
	}
	seen := map[string]Stats{}
	tbl.Drain(func(k []byte, _ uint64, s Stats) {
		seen[string(k)] = s
	})
	if seen["a"].Count != 2 || seen["b"].Count != 1 || seen["c"].Count != 1 {
		t.Errorf("counts = %+v", seen)
	}
}

func TestTableWrapAround(t *testing.T) {
	tbl := NewTable(3, PolicyProbe)
	cap := uint64(len(tbl.slots))
	last := cap - 1
	if err := tbl.Upsert([]byte("x"), last, 1); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Upsert([]byte("y"), last+cap, 2); err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}
}

func TestTableFull(t *testing.T) {
	tbl := NewTable(2, PolicyProbe)
	if err := tbl.Upsert([]byte("a"), 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Upsert([]byte("b"), 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Upsert([]byte("c"), 2, 3); !errors.Is(err, ErrTableFull) {
		t.Fatalf("err = %v, want ErrTableFull", err)
	}
}

func TestTableDirectCollision(t *testing.T) {
	tbl := NewTable(7, PolicyDirect)
	cap := uint64(len(tbl.slots))
	if err := tbl.Upsert([]byte("a"), 3, 1); err != nil {
		t.Fatal(err)
	}
	// same hash goes through without a key comparison
	if err := tbl.Upsert([]byte("a"), 3, 2); err != nil {
		t.Fatal(err)
	}
	// same slot, different hash is fatal under direct addressing
	err := tbl.Upsert([]byte("b"), 3+cap, 3)
	var hc *HashCollisionError
	if !errors.As(err, &hc) {
		t.Fatalf("err = %v, want HashCollisionError", err)
	}
	if string(hc.Resident) != "a" || string(hc.Incoming) != "b" {
		t.Errorf("collision = %+v", hc)
	}
}

func TestTableMerge(t *testing.T) {
	tbl := NewTable(7, PolicyProbe)
	key := []byte("k")
	h := uint64(5)
	if err := tbl.Merge(key, h, Stats{Min: -10, Max: 20, Sum: 10, Count: 2}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Merge(key, h, Stats{Min: -5, Max: 45, Sum: 40, Count: 3}); err != nil {
		t.Fatal(err)
	}
	var got Stats
	tbl.Drain(func(_ []byte, _ uint64, s Stats) { got = s })
	want := Stats{Min: -10, Max: 45, Sum: 50, Count: 5}
	if got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func TestNextPrime(t *testing.T) {
	cases := map[int]int{1: 2, 2: 2, 3: 3, 4: 5, 8: 11, 2038: 2039, 16380: 16381}
	for in, want := range cases {
		if got := nextPrime(in); got != want {
			t.Errorf("nextPrime(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestSwissTable(t *testing.T) {
	tbl := newSwissTable(16)
	if err := tbl.Upsert([]byte("a"), 0, 10); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Upsert([]byte("a"), 0, -20); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Merge([]byte("b"), 0, Stats{Min: 1, Max: 2, Sum: 3, Count: 2}); err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d, want 2", tbl.Len())
	}
	seen := map[string]Stats{}
	tbl.Drain(func(k []byte, _ uint64, s Stats) { seen[string(k)] = s })
	if seen["a"] != (Stats{Min: -20, Max: 10, Sum: -10, Count: 2}) {
		t.Errorf("a = %+v", seen["a"])
	}
	if seen["b"] != (Stats{Min: 1, Max: 2, Sum: 3, Count: 2}) {
		t.Errorf("b = %+v", seen["b"])
	}
}
