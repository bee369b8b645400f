//go:build linux

package agg

import "golang.org/x/sys/unix"

// pinLane binds the calling thread to one execution unit. Purely a
// performance hint: the return value only says whether the bind took.
func pinLane(lane int) bool {
	n := DetectLanes()
	if n < 1 {
		return false
	}
	var set unix.CPUSet
	set.Set(lane % n)
	return unix.SchedSetaffinity(0, &set) == nil
}
