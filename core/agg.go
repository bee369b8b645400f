// Package agg is a parallel partitioned streaming aggregator for large
// key;value files: the input byte range is cut into per-lane partitions
// aligned on record starts, each lane scans its partition into a private
// fixed-capacity table with no synchronization, and the lane tables are
// folded into one final table after the join.
package agg

import "fmt"

// Backend selects the per-lane aggregation structure.
type Backend uint8

const (
	// BackendOpen is the fixed-capacity open-addressing table.
	BackendOpen Backend = iota
	// BackendSwiss aggregates into a dolthub swiss map instead.
	BackendSwiss
)

// Options configure a run. The zero value picks sane defaults.
type Options struct {
	Lanes         int     // worker lanes; 0 = one per execution unit
	Capacity      int     // table capacity; 0 = DefaultCapacity, rounded up to a prime
	Policy        Policy  // collision policy for the open table
	Hasher        Hasher  // key hash variant
	Backend       Backend // aggregation backend
	SkipMalformed bool    // skip malformed records instead of aborting
	PinLanes      bool    // best-effort lane-to-CPU pinning
}

func (o Options) withDefaults() Options {
	if o.Lanes < 1 {
		o.Lanes = DetectLanes()
	}
	if o.Capacity < 1 {
		o.Capacity = DefaultCapacity
	}
	return o
}

func (o Options) validate() error {
	if o.Policy != PolicyProbe && o.Policy != PolicyDirect {
		return fmt.Errorf("unknown collision policy %d", o.Policy)
	}
	if o.Hasher != HashFNV && o.Hasher != HashXXH3 {
		return fmt.Errorf("unknown hasher %d", o.Hasher)
	}
	if o.Backend != BackendOpen && o.Backend != BackendSwiss {
		return fmt.Errorf("unknown backend %d", o.Backend)
	}
	return nil
}

func (o Options) newSink() sink {
	if o.Backend == BackendSwiss {
		return newSwissTable(o.Capacity)
	}
	return NewTable(o.Capacity, o.Policy)
}

// Solve loads the whole input through the reader and aggregates it.
func Solve(fr FileReader, opts Options) (*Result, error) {
	buf, err := fr.Bytes()
	if err != nil {
		return nil, fmt.Errorf("load input: %w", err)
	}
	return SolveBytes(buf, opts)
}

// SolveBytes aggregates an already loaded buffer. The buffer must stay
// alive and unmodified while the Result is in use: keys borrow from it.
func SolveBytes(buf []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return solve(buf, opts)
}
