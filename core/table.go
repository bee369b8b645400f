package agg

import "bytes"

// Policy selects how the open-addressing table resolves slot collisions.
type Policy uint8

const (
	// PolicyProbe verifies the stored hash and key bytes and probes
	// linearly with wraparound. Safe for any key domain.
	PolicyProbe Policy = iota
	// PolicyDirect trusts the hash to identify the slot: an occupied slot
	// whose hash differs is a fatal HashCollisionError. Valid only when
	// the caller can guarantee hash uniqueness for its key set and
	// capacity.
	PolicyDirect
)

// DefaultCapacity is a prime comfortably above the key cardinality of the
// target workloads (hundreds to ~10k distinct keys).
const DefaultCapacity = 16381

// entry occupies one slot. Count == 0 marks a free slot; keys borrow from
// the input buffer and are never copied.
type entry struct {
	hash  uint64
	key   []byte
	stats Stats
}

// Table is a fixed-capacity open-addressing aggregation table keyed by
// raw byte spans with precomputed hashes. No resizing: capacity is fixed
// at construction.
type Table struct {
	slots  []entry
	live   int
	policy Policy
}

// NewTable builds a table with the given policy. Capacity is rounded up
// to the next prime.
func NewTable(capacity int, policy Policy) *Table {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Table{
		slots:  make([]entry, nextPrime(capacity)),
		policy: policy,
	}
}

// find locates the slot for (key, hash), free or live.
func (t *Table) find(key []byte, hash uint64) (int, error) {
	i := int(hash % uint64(len(t.slots)))
	if t.policy == PolicyDirect {
		e := &t.slots[i]
		if e.stats.Count == 0 || e.hash == hash {
			return i, nil
		}
		return 0, &HashCollisionError{Slot: i, Resident: e.key, Incoming: key}
	}
	for probed := 0; probed < len(t.slots); probed++ {
		e := &t.slots[i]
		if e.stats.Count == 0 {
			return i, nil
		}
		if e.hash == hash && bytes.Equal(e.key, key) {
			return i, nil
		}
		i++
		if i == len(t.slots) {
			i = 0
		}
	}
	return 0, ErrTableFull
}

// Upsert folds one raw value into the key's aggregate, creating the entry
// on first sight. This is the hot path, executed once per record.
func (t *Table) Upsert(key []byte, hash uint64, v int32) error {
	i, err := t.find(key, hash)
	if err != nil {
		return err
	}
	e := &t.slots[i]
	if e.stats.Count == 0 {
		e.hash = hash
		e.key = key
		e.stats = newStats(v)
		t.live++
		return nil
	}
	e.stats.add(v)
	return nil
}

// Merge folds a whole aggregate into the key's entry, creating it if absent.
func (t *Table) Merge(key []byte, hash uint64, s Stats) error {
	i, err := t.find(key, hash)
	if err != nil {
		return err
	}
	e := &t.slots[i]
	if e.stats.Count == 0 {
		e.hash = hash
		e.key = key
		e.stats = s
		t.live++
		return nil
	}
	e.stats.fold(s)
	return nil
}

// Drain yields every live entry exactly once, in slot order.
func (t *Table) Drain(yield func(key []byte, hash uint64, s Stats)) {
	for i := range t.slots {
		if t.slots[i].stats.Count > 0 {
			yield(t.slots[i].key, t.slots[i].hash, t.slots[i].stats)
		}
	}
}

// Len returns the number of live keys.
func (t *Table) Len() int { return t.live }

func nextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	if n%2 == 0 {
		n++
	}
	for ; ; n += 2 {
		if isPrime(n) {
			return n
		}
	}
}

func isPrime(n int) bool {
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return n == 2 || n%2 != 0
}
