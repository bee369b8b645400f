package agg

import (
	"errors"
	"fmt"
)

// ErrTableFull is returned when a probing table has no free slot left for a
// new key. Capacity planning is supposed to make this unreachable.
var ErrTableFull = errors.New("aggregation table full")

// MalformedRecordError reports a record that does not match the
// key;value\n grammar, with the byte offset of the violation.
type MalformedRecordError struct {
	Offset int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at byte %d: %s", e.Offset, e.Reason)
}

func malformed(offset int, reason string) error {
	return &MalformedRecordError{Offset: offset, Reason: reason}
}

// HashCollisionError reports two distinct keys landing on the same slot
// under the direct-addressing policy. Under that policy this is fatal:
// probing is disabled, so the run aborts instead of mis-aggregating.
type HashCollisionError struct {
	Slot     int
	Resident []byte
	Incoming []byte
}

func (e *HashCollisionError) Error() string {
	return fmt.Sprintf("hash collision at slot %d: %q vs %q", e.Slot, e.Resident, e.Incoming)
}
