package agg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
)

// round1 rounds to one decimal, halves toward positive infinity.
// Matches the reference renderer (11.05 -> 11.1).
func round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// WriteSummary renders the result sorted by key bytes ascending as
// {key=min/mean/max, ...} with one decimal digit.
func WriteSummary(w io.Writer, res *Result) error {
	type row struct {
		key   []byte
		stats Stats
	}
	rows := make([]row, 0, res.Keys())
	res.Each(func(key []byte, s Stats) {
		rows = append(rows, row{key: key, stats: s})
	})
	slices.SortFunc(rows, func(a, b row) int {
		return bytes.Compare(a.key, b.key)
	})
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rows {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s=%.1f/%.1f/%.1f",
			r.key,
			float64(r.stats.Min)/10,
			round1(r.stats.Mean()),
			float64(r.stats.Max)/10)
	}
	buf.WriteByte('}')
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteSummaryFile writes the rendered summary to a file.
func WriteSummaryFile(filename string, res *Result) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSummary(f, res)
}
