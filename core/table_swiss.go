package agg

import "github.com/dolthub/swiss"

// swissTable is the alternative backend built on dolthub's swiss map. It
// hashes internally, so precomputed hashes are ignored and keys are
// copied into owned strings on first insert.
type swissTable struct {
	m *swiss.Map[string, *Stats]
}

func newSwissTable(capacity int) *swissTable {
	return &swissTable{m: swiss.NewMap[string, *Stats](uint32(capacity))}
}

func (t *swissTable) Upsert(key []byte, _ uint64, v int32) error {
	if s, ok := t.m.Get(string(key)); ok {
		s.add(v)
		return nil
	}
	s := newStats(v)
	t.m.Put(string(key), &s)
	return nil
}

func (t *swissTable) Merge(key []byte, _ uint64, o Stats) error {
	if s, ok := t.m.Get(string(key)); ok {
		s.fold(o)
		return nil
	}
	t.m.Put(string(key), &o)
	return nil
}

func (t *swissTable) Drain(yield func(key []byte, hash uint64, s Stats)) {
	t.m.Iter(func(k string, s *Stats) bool {
		yield([]byte(k), 0, *s)
		return false
	})
}

func (t *swissTable) Len() int { return t.m.Count() }
