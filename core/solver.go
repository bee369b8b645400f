package agg

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// sink is the aggregation backend contract shared by the open-addressing
// table and the swiss-map variant.
type sink interface {
	Upsert(key []byte, hash uint64, v int32) error
	Merge(key []byte, hash uint64, s Stats) error
	Drain(yield func(key []byte, hash uint64, s Stats))
	Len() int
}

// Result is the outcome of a completed run. Keys yielded by Each borrow
// from the input buffer and stay valid as long as it does.
type Result struct {
	final   sink
	Records uint64 // well-formed records aggregated
	Skipped uint64 // malformed records skipped (skip policy only)
}

// Each yields every (key, aggregate) pair once, in no particular order.
func (r *Result) Each(yield func(key []byte, s Stats)) {
	r.final.Drain(func(key []byte, _ uint64, s Stats) {
		yield(key, s)
	})
}

// Keys returns the number of distinct keys seen.
func (r *Result) Keys() int { return r.final.Len() }

// runLane scans one partition into a private table. The final record of a
// partition may extend past End; that is by construction the only record
// crossing the boundary and it belongs to this lane.
func runLane(buf []byte, lane int, p Partition, tbl sink, skipped *uint64, opts Options) error {
	if opts.PinLanes {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		pinLane(lane) // best effort, failure is fine
	}
	off := p.Start
	for off < p.End {
		rec, next, err := scanRecord(buf, off, opts.Hasher)
		if err != nil {
			if opts.SkipMalformed {
				*skipped++
				off = skipRecord(buf, off)
				continue
			}
			return err
		}
		if err := tbl.Upsert(rec.key, rec.hash, rec.val); err != nil {
			return err
		}
		off = next
	}
	return nil
}

// solve runs the scan+merge pipeline over a fully loaded buffer.
func solve(buf []byte, opts Options) (*Result, error) {
	parts := planPartitions(buf, opts.Lanes)
	tables := make([]sink, len(parts))
	skips := make([]uint64, len(parts))
	var g errgroup.Group
	for i, p := range parts {
		i, p := i, p
		tables[i] = opts.newSink()
		g.Go(func() error {
			return runLane(buf, i, p, tables[i], &skips[i], opts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res := &Result{final: opts.newSink()}
	for _, t := range tables {
		var mergeErr error
		t.Drain(func(key []byte, hash uint64, s Stats) {
			if mergeErr != nil {
				return
			}
			mergeErr = res.final.Merge(key, hash, s)
		})
		if mergeErr != nil {
			return nil, mergeErr
		}
	}
	res.final.Drain(func(_ []byte, _ uint64, s Stats) {
		res.Records += s.Count
	})
	for _, n := range skips {
		res.Skipped += n
	}
	return res, nil
}
