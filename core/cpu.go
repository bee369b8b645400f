package agg

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// DetectLanes reports how many worker lanes to run, one per logical core.
func DetectLanes() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.NumCPU()
}
