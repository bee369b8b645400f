package agg

// Partition is a half-open byte range of the input assigned to one lane.
// Start is 0 or immediately preceded by a newline.
type Partition struct {
	Start int
	End   int
}

// planPartitions cuts the buffer into lanes contiguous partitions. Nominal
// boundaries are floor(len/lanes)*i with the remainder folded into the
// last lane; every internal boundary is then advanced to the next record
// start so no partition begins mid-record. Partitions tile the buffer
// exactly; a boundary overrun by a long record yields an empty partition
// rather than a split record.
func planPartitions(buf []byte, lanes int) []Partition {
	if lanes < 1 {
		lanes = 1
	}
	nominal := len(buf) / lanes
	bounds := make([]int, lanes+1)
	for i := 1; i < lanes; i++ {
		b := nominal * i
		for b > 0 && b < len(buf) && buf[b-1] != '\n' {
			b++
		}
		bounds[i] = b
	}
	bounds[lanes] = len(buf)
	parts := make([]Partition, lanes)
	for i := range parts {
		parts[i] = Partition{Start: bounds[i], End: bounds[i+1]}
	}
	return parts
}
