package agg

// Stats holds the running aggregate for one key. Values are stored in
// integer tenths so that lane merges are exact regardless of the order
// records were seen in.
type Stats struct {
	Min   int32
	Max   int32
	Sum   int64
	Count uint64
}

func newStats(v int32) Stats {
	return Stats{Min: v, Max: v, Sum: int64(v), Count: 1}
}

// add folds one raw value into the aggregate.
func (s *Stats) add(v int32) {
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
	s.Sum += int64(v)
	s.Count++
}

// fold combines another aggregate into this one. Same rule as add,
// generalized to two aggregates.
func (s *Stats) fold(o Stats) {
	if o.Min < s.Min {
		s.Min = o.Min
	}
	if o.Max > s.Max {
		s.Max = o.Max
	}
	s.Sum += o.Sum
	s.Count += o.Count
}

// Mean returns the arithmetic mean in natural units (not tenths).
func (s *Stats) Mean() float64 {
	return float64(s.Sum) / float64(s.Count) / 10.0
}
