package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/profile"

	agg "brc/fastagg/core"
)

type config struct {
	input         string
	output        string // empty means stdout
	reader        string // mmap or disk
	lanes         int
	capacity      int
	policy        string // probe or direct
	hasher        string // fnv or xxh3
	table         string // open or swiss
	skipMalformed bool
	pin           bool
}

func parseOptions(cfg config) (agg.Options, error) {
	opts := agg.Options{
		Lanes:         cfg.lanes,
		Capacity:      cfg.capacity,
		SkipMalformed: cfg.skipMalformed,
		PinLanes:      cfg.pin,
	}
	switch cfg.policy {
	case "", "probe":
		opts.Policy = agg.PolicyProbe
	case "direct":
		opts.Policy = agg.PolicyDirect
	default:
		return opts, fmt.Errorf("unknown policy %q (want probe or direct)", cfg.policy)
	}
	switch cfg.hasher {
	case "", "fnv":
		opts.Hasher = agg.HashFNV
	case "xxh3":
		opts.Hasher = agg.HashXXH3
	default:
		return opts, fmt.Errorf("unknown hasher %q (want fnv or xxh3)", cfg.hasher)
	}
	switch cfg.table {
	case "", "open":
		opts.Backend = agg.BackendOpen
	case "swiss":
		opts.Backend = agg.BackendSwiss
	default:
		return opts, fmt.Errorf("unknown table %q (want open or swiss)", cfg.table)
	}
	return opts, nil
}

func newReader(kind string) (agg.FileReader, error) {
	switch kind {
	case "", "mmap":
		return agg.NewFileMmapReader(), nil
	case "disk":
		return agg.NewFileDiskReader(), nil
	default:
		return nil, fmt.Errorf("unknown reader %q (want mmap or disk)", kind)
	}
}

func run(cfg config) error {
	if cfg.input == "" {
		return fmt.Errorf("no input file given")
	}
	opts, err := parseOptions(cfg)
	if err != nil {
		return err
	}
	fr, err := newReader(cfg.reader)
	if err != nil {
		return err
	}
	if err := fr.Open(cfg.input); err != nil {
		return err
	}
	defer fr.Close()
	res, err := agg.Solve(fr, opts)
	if err != nil {
		return err
	}
	if cfg.output == "" {
		return agg.WriteSummary(os.Stdout, res)
	}
	return agg.WriteSummaryFile(cfg.output, res)
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "in", "", "input measurements file")
	flag.StringVar(&cfg.output, "out", "", "output file (default stdout)")
	flag.StringVar(&cfg.reader, "reader", "mmap", "input loader: mmap or disk")
	flag.IntVar(&cfg.lanes, "lanes", 0, "worker lanes (0 = one per core)")
	flag.IntVar(&cfg.capacity, "capacity", 0, "table capacity (0 = default, rounded up to a prime)")
	flag.StringVar(&cfg.policy, "policy", "probe", "collision policy: probe or direct")
	flag.StringVar(&cfg.hasher, "hash", "fnv", "key hasher: fnv or xxh3")
	flag.StringVar(&cfg.table, "table", "open", "aggregation backend: open or swiss")
	flag.BoolVar(&cfg.skipMalformed, "skip-malformed", false, "skip malformed records instead of aborting")
	flag.BoolVar(&cfg.pin, "pin", false, "pin lanes to cores (best effort)")
	prof := flag.Bool("profile", false, "write a CPU profile to the current directory")
	flag.Parse()
	if *prof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}
